// service.go - начисление чекина и стрик-бонусов
package checkin

import (
	"context"

	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/common"
	"airdrop-bot/internal/config"
	"airdrop-bot/internal/features/ledger"
)

// Result — итог чекина за сегодняшний день кампании.
type Result struct {
	Awarded bool  // чекин засчитан сейчас (false = уже был сегодня)
	Points  int64 // номинал дневного чекина
	Streak  int   // текущая серия, включая сегодня
	Bonuses []config.StreakBonus
}

type Service struct {
	ledger   *ledger.Service
	campaign *config.Campaign
}

func NewService(ledgerService *ledger.Service, campaign *config.Campaign) *Service {
	return &Service{ledger: ledgerService, campaign: campaign}
}

// CheckIn отмечает чекин за сегодня (в таймзоне кампании) и выдаёт
// стрик-бонусы, порог которых совпал с текущей серией. Бонусы
// проверяются и при повторном чекине: если процесс упал между
// чекином и бонусом, ключ идемпотентности доначислит ровно один раз.
func (s *Service) CheckIn(ctx context.Context, userID int64) (*Result, error) {
	today := common.TodayIn(s.campaign.Location())

	awarded, err := s.ledger.CreditOnce(ctx, userID, ledger.CheckinKey(today), ledger.CategoryCheckin,
		s.campaign.Points.DailyCheckin, map[string]interface{}{"date": common.DateString(today)})
	if err != nil {
		return nil, err
	}

	keys, err := s.ledger.CheckinKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak := Streak(ParseCheckinDates(keys), today)

	res := &Result{Awarded: awarded, Points: s.campaign.Points.DailyCheckin, Streak: streak}

	for _, sb := range s.campaign.Points.StreakBonuses {
		if sb.Days != streak {
			continue
		}
		granted, err := s.ledger.CreditOnce(ctx, userID, ledger.StreakBonusKey(sb.Days, today),
			ledger.CategoryStreakBonus, sb.Points, map[string]interface{}{"streak": sb.Days})
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Error("Ошибка начисления стрик-бонуса")
			continue
		}
		if granted {
			res.Bonuses = append(res.Bonuses, sb)
		}
	}

	return res, nil
}

// ShouldRemind сообщает, стоит ли напомнить о чекине: серия ещё жива
// (вчера чекин был), а сегодняшнего пока нет.
func (s *Service) ShouldRemind(ctx context.Context, userID int64) (bool, error) {
	keys, err := s.ledger.CheckinKeys(ctx, userID)
	if err != nil {
		return false, err
	}

	dates := ParseCheckinDates(keys)
	today := common.TodayIn(s.campaign.Location())

	if _, ok := dates[common.DateString(today)]; ok {
		return false, nil
	}
	_, ok := dates[common.DateString(today.AddDate(0, 0, -1))]
	return ok, nil
}

// CurrentStreak — серия без начисления, для напоминаний и экранов.
func (s *Service) CurrentStreak(ctx context.Context, userID int64) (int, error) {
	keys, err := s.ledger.CheckinKeys(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Streak(ParseCheckinDates(keys), common.TodayIn(s.campaign.Location())), nil
}
