// Package users — repository.go выполняет все операции с таблицей users.
// Каждая функция выполняет один SQL-запрос; атомарность переходов кошелька
// обеспечивается условиями WHERE и уникальными ограничениями схемы,
// а не блокировками в памяти.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"airdrop-bot/internal/common"
)

// ErrReferralCodeTaken — сгенерированный реферальный код уже занят.
// Сервис в этом случае генерирует новый код и повторяет вставку.
var ErrReferralCodeTaken = errors.New("реферальный код уже занят")

const pgUniqueViolation = "23505"

// Названия ограничений из миграций — по ним различаем, что именно столкнулось.
const (
	constraintReferralCode = "users_referral_code_key"
	constraintWalletUnique = "idx_users_wallet_address"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure создаёт пользователя с данным реферальным кодом или, если он уже
// есть, обновляет только username. Идемпотентна по id.
func (r *Repository) Ensure(ctx context.Context, userID int64, username, referralCode string) error {
	query := `
		INSERT INTO users (id, username, referral_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
	`
	_, err := r.db.Exec(ctx, query, userID, username, referralCode)
	if err != nil {
		if isUniqueViolation(err, constraintReferralCode) {
			return ErrReferralCodeTaken
		}
		return fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}
	return nil
}

// GetByID: если не найден — common.ErrUserNotFound.
func (r *Repository) GetByID(ctx context.Context, userID int64) (*User, error) {
	return r.get(ctx, `WHERE id = $1`, userID)
}

// GetByReferralCode ищет владельца реферального кода.
func (r *Repository) GetByReferralCode(ctx context.Context, code string) (*User, error) {
	return r.get(ctx, `WHERE referral_code = $1`, code)
}

func (r *Repository) get(ctx context.Context, where string, arg interface{}) (*User, error) {
	query := `
		SELECT id, username, referral_code, referrer_id, wallet_address,
		       wallet_pending, wallet_change_count, state, created_at
		FROM users ` + where
	var (
		u        User
		rawState *string
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.ReferralCode, &u.ReferrerID, &u.WalletAddress,
		&u.WalletPending, &u.WalletChangeCount, &rawState, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя: %w", err)
	}
	u.State = ParseState(rawState)
	return &u, nil
}

// SetReferrerIfEmpty атрибутирует реферал ровно один раз.
// Ничего не делает, если реферер уже записан или это самоприглашение —
// такие случаи молча игнорируются, это не ошибки.
func (r *Repository) SetReferrerIfEmpty(ctx context.Context, userID, referrerID int64) error {
	query := `
		UPDATE users SET referrer_id = $2
		WHERE id = $1 AND referrer_id IS NULL AND id <> $2
	`
	_, err := r.db.Exec(ctx, query, userID, referrerID)
	if err != nil {
		return fmt.Errorf("ошибка атрибуции реферала: %w", err)
	}
	return nil
}

// ReferralCounts считает приглашённых прямо по таблице users,
// поэтому счётчики не могут разойтись с реальностью.
func (r *Repository) ReferralCounts(ctx context.Context, referrerID int64) (total, qualified int, err error) {
	query := `
		SELECT COUNT(*), COUNT(wallet_address)
		FROM users WHERE referrer_id = $1
	`
	if err := r.db.QueryRow(ctx, query, referrerID).Scan(&total, &qualified); err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта рефералов: %w", err)
	}
	return total, qualified, nil
}

// SetState записывает слот состояния диалога (StateNone = NULL).
func (r *Repository) SetState(ctx context.Context, userID int64, state State) error {
	query := `UPDATE users SET state = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID, state.Encode())
	if err != nil {
		return fmt.Errorf("ошибка записи состояния: %w", err)
	}
	return nil
}

// StagePendingWallet кладёт адрес в слот ожидания, затирая прежний pending.
func (r *Repository) StagePendingWallet(ctx context.Context, userID int64, address string) error {
	query := `UPDATE users SET wallet_pending = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID, address)
	if err != nil {
		return fmt.Errorf("ошибка сохранения pending-адреса: %w", err)
	}
	return nil
}

// ClearPendingWallet сбрасывает pending и возвращает диалог в состояние state.
// Используется кнопками "Re-enter" обоих потоков.
func (r *Repository) ClearPendingWallet(ctx context.Context, userID int64, state State) error {
	query := `UPDATE users SET wallet_pending = NULL, state = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, userID, state.Encode())
	if err != nil {
		return fmt.Errorf("ошибка сброса pending-адреса: %w", err)
	}
	return nil
}

// PromoteWallet атомарно делает pending-адрес активным при ПЕРВОЙ регистрации:
// только если активного кошелька ещё нет и pending заполнен. Попутно чистит
// pending и состояние диалога. Уникальный индекс по wallet_address — последний
// рубеж против гонки двух пользователей с одинаковым адресом.
func (r *Repository) PromoteWallet(ctx context.Context, userID int64) (string, error) {
	query := `
		UPDATE users
		SET wallet_address = wallet_pending, wallet_pending = NULL, state = NULL
		WHERE id = $1 AND wallet_address IS NULL AND wallet_pending IS NOT NULL
		RETURNING wallet_address
	`
	var address string
	err := r.db.QueryRow(ctx, query, userID).Scan(&address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.ErrNoPendingWallet
		}
		if isUniqueViolation(err, constraintWalletUnique) {
			return "", common.ErrWalletTaken
		}
		return "", fmt.Errorf("ошибка подтверждения кошелька: %w", err)
	}
	return address, nil
}

// ApplyWalletChange атомарно применяет смену кошелька: активный адрес
// заменяется на pending, счётчик смен увеличивается. Баллы при смене
// не начисляются — это делает только первая регистрация.
func (r *Repository) ApplyWalletChange(ctx context.Context, userID int64) (string, error) {
	query := `
		UPDATE users
		SET wallet_address = wallet_pending, wallet_pending = NULL, state = NULL,
		    wallet_change_count = wallet_change_count + 1
		WHERE id = $1 AND wallet_address IS NOT NULL AND wallet_pending IS NOT NULL
		RETURNING wallet_address
	`
	var address string
	err := r.db.QueryRow(ctx, query, userID).Scan(&address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.ErrNoPendingWallet
		}
		if isUniqueViolation(err, constraintWalletUnique) {
			return "", common.ErrWalletTaken
		}
		return "", fmt.Errorf("ошибка смены кошелька: %w", err)
	}
	return address, nil
}

// WalletTakenByOther — быстрая проверка занятости адреса перед подтверждением.
// Даёт дружелюбный отказ до UPDATE; гонку всё равно закрывает индекс.
func (r *Repository) WalletTakenByOther(ctx context.Context, userID int64, address string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE wallet_address = $1 AND id <> $2)`
	var taken bool
	if err := r.db.QueryRow(ctx, query, address, userID).Scan(&taken); err != nil {
		return false, fmt.Errorf("ошибка проверки адреса: %w", err)
	}
	return taken, nil
}

// ResetWalletChangeCount обнуляет счётчик смен кошелька (ручное действие поддержки).
func (r *Repository) ResetWalletChangeCount(ctx context.Context, userID int64) error {
	query := `UPDATE users SET wallet_change_count = 0 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("ошибка сброса счётчика смен: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// WalletUserIDs возвращает всех пользователей с активным кошельком.
// Используется джобой напоминаний о чекине.
func (r *Repository) WalletUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users WHERE wallet_address IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки пользователей: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Counts возвращает сводку для админ-панели: всего пользователей и с кошельком.
func (r *Repository) Counts(ctx context.Context) (total, withWallet int, err error) {
	query := `SELECT COUNT(*), COUNT(wallet_address) FROM users`
	if err := r.db.QueryRow(ctx, query).Scan(&total, &withWallet); err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта пользователей: %w", err)
	}
	return total, withWallet, nil
}

// isUniqueViolation проверяет, что err — нарушение конкретного уникального
// ограничения Postgres (код 23505).
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgUniqueViolation &&
		pgErr.ConstraintName == constraint
}
