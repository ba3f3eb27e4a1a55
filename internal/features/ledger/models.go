// Package ledger — append-only журнал начислений баллов, источник истины
// для баланса. models.go описывает строку журнала.
package ledger

import "time"

// Entry — одна запись журнала. Записи никогда не обновляются и не удаляются;
// баланс пользователя = сумма amount всех его записей.
type Entry struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	IdempotencyKey string    `db:"idempotency_key"` // уникален в паре с user_id
	Category       string    `db:"category"`        // wallet_register, referral, checkin, ...
	Amount         int64     `db:"amount"`          // знаковое: отрицательные списания допустимы
	Meta           string    `db:"meta"`            // произвольный JSON
	CreatedAt      time.Time `db:"created_at"`
}

// Категории начислений.
const (
	CategoryWalletRegister = "wallet_register"
	CategoryReferral       = "referral"
	CategoryCheckin        = "checkin"
	CategoryStreakBonus    = "streak_bonus"
	CategoryMission        = "mission"
)
