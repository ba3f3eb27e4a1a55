// Package admin реализует панель поддержки с парольной аутентификацией.
// models.go описывает структуры сессий и попыток входа.
package admin

import "time"

// Session — активная сессия администратора.
type Session struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	SessionToken    string    `db:"session_token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	LastActivity    time.Time `db:"last_activity"`
	IsActive        bool      `db:"is_active"`
}

// LoginAttempt — попытка входа (для защиты от brute-force).
type LoginAttempt struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	AttemptTime time.Time `db:"attempt_time"`
	Success     bool      `db:"success"`
}

// dialogState — in-memory состояние админ-диалога.
// Единственный многошаговый сценарий — ввод пароля после /login.
type dialogState struct {
	State     string
	ExpiresAt time.Time
}

// Состояния админ-диалога
const (
	StateNone             = ""
	StateAwaitingPassword = "awaiting_password"
)
