// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает единственную задачу — вечернее напоминание
// о чекине. Отложенные награды фоновыми задачами НЕ начисляются:
// их рассчитывает само взаимодействие пользователя с ботом.
package jobs

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/config"
	"airdrop-bot/internal/features/checkin"
	"airdrop-bot/internal/features/users"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron    *cron.Cron
	cfg     *config.Config
	users   *users.Service
	checkin *checkin.Service
	api     *tgbotapi.BotAPI
}

// NewScheduler создаёт планировщик в часовом поясе кампании.
func NewScheduler(cfg *config.Config, campaign *config.Campaign, usersService *users.Service, checkinService *checkin.Service, api *tgbotapi.BotAPI) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(campaign.Location())),
		cfg:     cfg,
		users:   usersService,
		checkin: checkinService,
		api:     api,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	if s.cfg.FeatureReminderEnabled {
		spec := fmt.Sprintf("0 %d * * *", s.cfg.ReminderHour)
		s.cron.AddFunc(spec, func() {
			log.Info("[CRON] Напоминания о чекине")
			s.sendCheckinReminders(ctx)
		})
	}

	s.cron.Start()
	log.Info("Планировщик задач запущен")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// sendCheckinReminders напоминает пользователям с живой серией,
// которые сегодня ещё не отметились.
func (s *Scheduler) sendCheckinReminders(ctx context.Context) {
	ids, err := s.users.WalletUserIDs(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка выборки пользователей")
		return
	}

	sent := 0
	for _, userID := range ids {
		remind, err := s.checkin.ShouldRemind(ctx, userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("[CRON] Ошибка проверки серии")
			continue
		}
		if !remind {
			continue
		}

		msg := tgbotapi.NewMessage(userID,
			"⏰ Don't lose your streak!\nTap Daily Check-in in the Bonus menu before midnight.")
		if _, err := s.api.Send(msg); err != nil {
			// Пользователь мог заблокировать бота, это штатно.
			log.WithError(err).WithField("user_id", userID).Debug("[CRON] Напоминание не доставлено")
			continue
		}
		sent++
	}

	log.WithField("sent", sent).Info("[CRON] Напоминания отправлены")
}
