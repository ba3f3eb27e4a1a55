// repository.go - хранение отложенных наград в таблице pending_rewards
package rewards

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert кладёт награду в очередь. ON CONFLICT по (user_id, mission_id):
// повторный сабмит той же миссии не создаёт вторую строку и не двигает
// срок созревания. Возвращает true, если строка вставлена впервые.
func (r *Repository) Insert(ctx context.Context, p PendingReward) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO pending_rewards (user_id, mission_id, idempotency_key, amount, eligible_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, mission_id) DO NOTHING
	`, p.UserID, p.MissionID, p.IdempotencyKey, p.Amount, p.EligibleAt)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

// ListDue возвращает созревшие награды пользователя.
func (r *Repository) ListDue(ctx context.Context, userID int64, now time.Time) ([]PendingReward, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, mission_id, idempotency_key, amount, eligible_at, created_at
		FROM pending_rewards
		WHERE user_id = $1 AND eligible_at <= $2
		ORDER BY eligible_at
	`, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []PendingReward
	for rows.Next() {
		var p PendingReward
		if err := rows.Scan(&p.UserID, &p.MissionID, &p.IdempotencyKey, &p.Amount, &p.EligibleAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		due = append(due, p)
	}

	return due, rows.Err()
}

// Delete убирает строку очереди после попытки начисления.
func (r *Repository) Delete(ctx context.Context, userID int64, missionID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM pending_rewards
		WHERE user_id = $1 AND mission_id = $2
	`, userID, missionID)

	return err
}

// CountPending - сколько наград ещё ждут созревания или расчёта (для админки).
func (r *Repository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pending_rewards`).Scan(&count)

	return count, err
}
