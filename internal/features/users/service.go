// Package users — service.go содержит бизнес-логику реестра участников:
// идемпотентную регистрацию, выдачу реферальных кодов и атрибуцию рефералов.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/common"
)

// Длина реферального кода. Кодов при такой длине хватает с запасом,
// а ссылка t.me остаётся короткой.
const referralCodeLen = 12

// Коллизия кода почти невероятна, но уникальный индекс честный —
// на всякий случай пробуем несколько раз.
const referralCodeAttempts = 5

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser регистрирует пользователя при первом контакте или обновляет
// username при повторном. Ошибок "уже существует" не бывает — операция
// идемпотентна.
func (s *Service) EnsureUser(ctx context.Context, userID int64, username string) error {
	for i := 0; i < referralCodeAttempts; i++ {
		err := s.repo.Ensure(ctx, userID, username, newReferralCode())
		if errors.Is(err, ErrReferralCodeTaken) {
			continue
		}
		return err
	}
	return fmt.Errorf("не удалось подобрать уникальный реферальный код (user_id=%d)", userID)
}

// AttributeReferral привязывает нового пользователя к владельцу кода.
// Молча игнорирует неизвестный код, самоприглашение и повторную атрибуцию:
// стартовать по чужой ссылке можно сколько угодно раз, засчитывается первая.
func (s *Service) AttributeReferral(ctx context.Context, newUserID int64, referralCode string) {
	code := strings.TrimSpace(referralCode)
	if code == "" {
		return
	}

	referrer, err := s.repo.GetByReferralCode(ctx, code)
	if errors.Is(err, common.ErrUserNotFound) {
		log.WithField("code", code).Debug("Реферальный код не найден")
		return
	}
	if err != nil {
		log.WithError(err).WithField("code", code).Warn("Поиск владельца реферального кода не удался")
		return
	}

	if err := s.repo.SetReferrerIfEmpty(ctx, newUserID, referrer.ID); err != nil {
		log.WithError(err).WithField("user_id", newUserID).Warn("Атрибуция реферала не записана")
		return
	}

	log.WithFields(log.Fields{
		"user_id":     newUserID,
		"referrer_id": referrer.ID,
	}).Debug("Реферал атрибутирован")
}

// ReferralCounts возвращает (всего приглашено, приглашено с кошельком).
func (s *Service) ReferralCounts(ctx context.Context, userID int64) (total, qualified int, err error) {
	return s.repo.ReferralCounts(ctx, userID)
}

// GetByID возвращает пользователя по Telegram ID.
func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// SetState пишет состояние диалога. Установка нового состояния вытесняет
// прежнее: слот ровно один.
func (s *Service) SetState(ctx context.Context, userID int64, state State) error {
	return s.repo.SetState(ctx, userID, state)
}

// ClearState сбрасывает состояние диалога.
func (s *Service) ClearState(ctx context.Context, userID int64) error {
	return s.repo.SetState(ctx, userID, State{})
}

// WalletUserIDs — все пользователи с подтверждённым кошельком.
// Используется рассыльщиком напоминаний.
func (s *Service) WalletUserIDs(ctx context.Context) ([]int64, error) {
	return s.repo.WalletUserIDs(ctx)
}

// newReferralCode генерирует короткий алфавитно-цифровой код.
func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:referralCodeLen]
}
