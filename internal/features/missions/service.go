// service.go - приём сабмитов миссий: валидация, отпечаток, начисление
package missions

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/config"
	"airdrop-bot/internal/features/ledger"
	"airdrop-bot/internal/features/rewards"
	"airdrop-bot/internal/features/users"
)

// Outcome — исход обработки сабмита.
type Outcome int

const (
	// OutcomeInvalid — текст не прошёл валидатор; диалог остаётся
	// в ожидании этой же миссии, Message содержит подсказку.
	OutcomeInvalid Outcome = iota
	// OutcomeDuplicateContent — отпечаток контента уже занят.
	// Ключ награды не расходуется, диалог остаётся в ожидании.
	OutcomeDuplicateContent
	// OutcomeCredited — миссия без задержки; Awarded говорит,
	// начислили сейчас или награда уже была выдана раньше.
	OutcomeCredited
	// OutcomeScheduled — награда поставлена в очередь (или уже
	// стояла там, тогда AlreadyScheduled = true).
	OutcomeScheduled
)

// SubmitResult — что произошло с сабмитом и что сказать пользователю.
type SubmitResult struct {
	Outcome          Outcome
	Message          string // текст ошибки валидатора при OutcomeInvalid
	Points           int64
	Awarded          bool
	AlreadyScheduled bool
	Delay            time.Duration
}

type Service struct {
	repo    *Repository
	users   *users.Service
	ledger  *ledger.Service
	rewards *rewards.Service
}

func NewService(repo *Repository, usersService *users.Service, ledgerService *ledger.Service, rewardsService *rewards.Service) *Service {
	return &Service{repo: repo, users: usersService, ledger: ledgerService, rewards: rewardsService}
}

// Submit обрабатывает текст, присланный в состоянии ожидания миссии.
// Порядок существенный: сначала валидатор, затем отпечаток, и только
// потом фиксация и награда. Отклонённый по отпечатку сабмит не трогает
// ключ идемпотентности миссии — пользователь может прислать другой текст.
func (s *Service) Submit(ctx context.Context, userID int64, m *config.Mission, text string) (*SubmitResult, error) {
	ok, errMsg, normalized := Validate(m.Validator, text)
	if !ok {
		return &SubmitResult{Outcome: OutcomeInvalid, Message: errMsg}, nil
	}

	if IsContentValidator(m.Validator) {
		claimed, err := s.repo.ClaimFingerprint(ctx, m.ID, userID, Fingerprint(normalized))
		if err != nil {
			return nil, err
		}
		if !claimed {
			log.WithFields(log.Fields{"user_id": userID, "mission": m.ID}).Info("duplicate content rejected")
			return &SubmitResult{Outcome: OutcomeDuplicateContent}, nil
		}
	}

	if err := s.repo.RecordSubmission(ctx, userID, m.ID, normalized); err != nil {
		return nil, err
	}

	// Сабмит принят — диалог больше не ждёт эту миссию.
	if err := s.users.ClearState(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка сброса состояния")
	}

	if m.DelayMinutes > 0 {
		scheduled, err := s.rewards.Schedule(ctx, userID, m.ID, ledger.MissionKey(m.ID), m.Points, m.Delay())
		if err != nil {
			return nil, err
		}
		return &SubmitResult{
			Outcome:          OutcomeScheduled,
			Points:           m.Points,
			AlreadyScheduled: !scheduled,
			Delay:            m.Delay(),
		}, nil
	}

	awarded, err := s.ledger.CreditOnce(ctx, userID, ledger.MissionKey(m.ID), ledger.CategoryMission, m.Points,
		map[string]interface{}{"mission_id": m.ID})
	if err != nil {
		return nil, err
	}

	return &SubmitResult{Outcome: OutcomeCredited, Points: m.Points, Awarded: awarded}, nil
}

// CountSubmissions — для админ-сводки.
func (s *Service) CountSubmissions(ctx context.Context) (int, error) {
	return s.repo.CountSubmissions(ctx)
}
