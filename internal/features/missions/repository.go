// Package missions — repository.go работает с таблицами submissions
// и fingerprints. Обе защищены составными первичными ключами; вставка
// с ON CONFLICT DO NOTHING — единственный примитив контроля гонок.
package missions

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ClaimFingerprint пытается застолбить отпечаток контента за пользователем.
// false — отпечаток уже занят (кем угодно, включая самого пользователя):
// сабмит надо отклонить как вероятный дубликат/плагиат.
func (r *Repository) ClaimFingerprint(ctx context.Context, missionID string, userID int64, digest string) (bool, error) {
	query := `
		INSERT INTO fingerprints (mission_id, digest, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (mission_id, digest) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, missionID, digest, userID)
	if err != nil {
		return false, fmt.Errorf("ошибка записи отпечатка: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordSubmission фиксирует сабмит пользователя по миссии.
// Повторный сабмит молча игнорируется: запись не управляет начислением,
// это делает ключ идемпотентности журнала.
func (r *Repository) RecordSubmission(ctx context.Context, userID int64, missionID, payload string) error {
	query := `
		INSERT INTO submissions (user_id, mission_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, mission_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID, missionID, payload); err != nil {
		return fmt.Errorf("ошибка записи сабмита: %w", err)
	}
	return nil
}

// CountSubmissions — общее число сабмитов (для админ-сводки).
func (r *Repository) CountSubmissions(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта сабмитов: %w", err)
	}
	return count, nil
}
