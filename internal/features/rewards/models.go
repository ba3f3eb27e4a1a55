// Package rewards реализует отложенные начисления за миссии.
// models.go описывает строку ожидающей награды.
package rewards

import "time"

// PendingReward — отложенная награда, одна на пару (user, mission).
// Создаётся при сабмите миссии с задержкой; удаляется при первом
// наблюдении в "созревшем" виде, независимо от исхода начисления.
type PendingReward struct {
	UserID         int64     `db:"user_id"`
	MissionID      string    `db:"mission_id"`
	IdempotencyKey string    `db:"idempotency_key"` // ключ журнала, которым начислим
	Amount         int64     `db:"amount"`
	EligibleAt     time.Time `db:"eligible_at"` // раньше этого момента не начисляем
	CreatedAt      time.Time `db:"created_at"`
}

// Credited — результат одного фактического начисления при расчёте.
type Credited struct {
	MissionID string
	Amount    int64
}
