// Package ledger — service.go содержит бизнес-операции журнала.
package ledger

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreditOnce начисляет amount баллов не более одного раза на (user, key).
// Возвращает true при новом начислении, false — если ключ уже использован.
// Вызывающий код ветвится по результату, исключений для дубликата нет.
func (s *Service) CreditOnce(ctx context.Context, userID int64, key, category string, amount int64, meta map[string]interface{}) (bool, error) {
	metaJSON := "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			metaJSON = string(b)
		}
	}

	credited, err := s.repo.InsertOnce(ctx, &Entry{
		UserID:         userID,
		IdempotencyKey: key,
		Category:       category,
		Amount:         amount,
		Meta:           metaJSON,
	})
	if err != nil {
		return false, err
	}

	if credited {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"key":      key,
			"category": category,
			"amount":   amount,
		}).Debug("Начисление записано")
	}
	return credited, nil
}

// Balance возвращает текущий баланс пользователя.
func (s *Service) Balance(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Balance(ctx, userID)
}

// CheckinKeys возвращает все ключи чекинов пользователя.
func (s *Service) CheckinKeys(ctx context.Context, userID int64) ([]string, error) {
	return s.repo.KeysByPrefix(ctx, userID, CheckinKeyPrefix)
}

// TotalIssued — суммарная эмиссия баллов (для админ-сводки).
func (s *Service) TotalIssued(ctx context.Context) (int64, error) {
	return s.repo.TotalIssued(ctx)
}
