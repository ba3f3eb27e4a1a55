// service.go - бизнес-логика отложенных начислений
package rewards

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/features/ledger"
)

// Service планирует награды и рассчитывает их лениво: никаких фоновых
// разборов очереди нет, созревшие строки обрабатываются при следующем
// обращении пользователя к боту.
type Service struct {
	repo   *Repository
	ledger *ledger.Service
}

func NewService(repo *Repository, ledgerService *ledger.Service) *Service {
	return &Service{repo: repo, ledger: ledgerService}
}

// Schedule ставит награду в очередь с задержкой от текущего момента.
// Возвращает false, если награда за эту миссию уже запланирована.
func (s *Service) Schedule(ctx context.Context, userID int64, missionID, idempotencyKey string, amount int64, delay time.Duration) (bool, error) {
	inserted, err := s.repo.Insert(ctx, PendingReward{
		UserID:         userID,
		MissionID:      missionID,
		IdempotencyKey: idempotencyKey,
		Amount:         amount,
		EligibleAt:     time.Now().Add(delay),
	})
	if err != nil {
		return false, err
	}

	if inserted {
		log.WithFields(log.Fields{
			"user_id": userID,
			"mission": missionID,
			"delay":   delay,
		}).Debug("scheduled delayed reward")
	}

	return inserted, nil
}

// SettleDue начисляет все созревшие награды пользователя и возвращает
// список фактически начисленных. Строка очереди удаляется в любом
// случае: если ключ журнала уже занят (например, миссию успели
// начислить напрямую), повторного начисления не будет и награда
// просто снимается с очереди.
func (s *Service) SettleDue(ctx context.Context, userID int64) ([]Credited, error) {
	due, err := s.repo.ListDue(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	var credited []Credited
	for _, p := range due {
		awarded, err := s.ledger.CreditOnce(ctx, p.UserID, p.IdempotencyKey, ledger.CategoryMission, p.Amount,
			map[string]interface{}{"mission_id": p.MissionID, "delayed": true})
		if err != nil {
			// Строку не трогаем: попробуем на следующем обращении.
			log.WithError(err).WithField("user_id", userID).Error("failed to settle delayed reward")
			continue
		}

		if err := s.repo.Delete(ctx, p.UserID, p.MissionID); err != nil {
			return credited, err
		}

		if awarded {
			credited = append(credited, Credited{MissionID: p.MissionID, Amount: p.Amount})
		}
	}

	return credited, nil
}

// CountPending отдаёт размер очереди для /stats.
func (s *Service) CountPending(ctx context.Context) (int64, error) {
	return s.repo.CountPending(ctx)
}
