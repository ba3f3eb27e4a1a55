// Package ledger — repository.go выполняет операции с таблицей ledger.
// Единственный механизм защиты от двойного начисления — уникальное
// ограничение (user_id, idempotency_key): вставка либо проходит, либо
// молча не вставляет ничего. Никаких блокировок.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InsertOnce пытается вставить запись журнала.
// Возвращает true, если запись новая, false — если ключ уже занят.
// Дубликат — ожидаемый исход, не ошибка.
func (r *Repository) InsertOnce(ctx context.Context, e *Entry) (bool, error) {
	query := `
		INSERT INTO ledger (user_id, idempotency_key, category, amount, meta)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, idempotency_key) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, e.UserID, e.IdempotencyKey, e.Category, e.Amount, e.Meta)
	if err != nil {
		return false, fmt.Errorf("ошибка вставки в журнал: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Balance возвращает баланс пользователя: сумму всех записей, 0 если их нет.
func (r *Repository) Balance(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger WHERE user_id = $1`
	var sum int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта баланса: %w", err)
	}
	return sum, nil
}

// KeysByPrefix возвращает ключи идемпотентности пользователя с данным
// префиксом. Стрик-движок по ним восстанавливает историю чекинов.
func (r *Repository) KeysByPrefix(ctx context.Context, userID int64, prefix string) ([]string, error) {
	// Префиксы у нас фиксированные, но спецсимволы LIKE всё равно экранируем.
	pattern := likeEscape(prefix) + "%"
	query := `SELECT idempotency_key FROM ledger WHERE user_id = $1 AND idempotency_key LIKE $2`
	rows, err := r.db.Query(ctx, query, userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки ключей: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("ошибка сканирования ключа: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// TotalIssued возвращает сумму всех начислений по всем пользователям.
// Используется в сводке админ-панели.
func (r *Repository) TotalIssued(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM ledger`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта эмиссии: %w", err)
	}
	return sum, nil
}

func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
