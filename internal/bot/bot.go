// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go запускает polling и маршрутизирует апдейты: меню, состояния диалога,
// inline-кнопки. Бот работает только в личных сообщениях.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/bot/keyboards"
	"airdrop-bot/internal/bot/middleware"
	"airdrop-bot/internal/config"
	"airdrop-bot/internal/features/admin"
	"airdrop-bot/internal/features/checkin"
	"airdrop-bot/internal/features/ledger"
	"airdrop-bot/internal/features/missions"
	"airdrop-bot/internal/features/rewards"
	"airdrop-bot/internal/features/users"
	"airdrop-bot/internal/features/wallet"
	"airdrop-bot/internal/recipeai"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	campaign *config.Campaign
	menu     tgbotapi.ReplyKeyboardMarkup

	rateLimiter *middleware.RateLimiter

	users   *users.Service
	ledger  *ledger.Service
	rewards *rewards.Service

	walletHandler  *wallet.Handler
	missionHandler *missions.Handler
	checkinHandler *checkin.Handler
	adminHandler   *admin.Handler

	recipeAI *recipeai.Client

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	campaign *config.Campaign,
	usersService *users.Service,
	ledgerService *ledger.Service,
	rewardsService *rewards.Service,
	walletHandler *wallet.Handler,
	missionHandler *missions.Handler,
	checkinHandler *checkin.Handler,
	adminHandler *admin.Handler,
	recipeAI *recipeai.Client,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:            api,
		cfg:            cfg,
		campaign:       campaign,
		menu:           keyboards.MainMenu(campaign),
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		users:          usersService,
		ledger:         ledgerService,
		rewards:        rewardsService,
		walletHandler:  walletHandler,
		missionHandler: missionHandler,
		checkinHandler: checkinHandler,
		adminHandler:   adminHandler,
		recipeAI:       recipeAI,
		inflight:       make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.rateLimiter.Close()
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}
	message := update.Message

	middleware.LogMessage(message)

	// Кампания живёт только в личке; группы игнорируем молча.
	if !message.Chat.IsPrivate() || message.From == nil {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	if err := b.users.EnsureUser(ctx, userID, message.From.UserName); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureUser failed")
	}

	// Созревшие отложенные награды начисляются на любом сообщении.
	b.settleDueRewards(ctx, chatID, userID)

	if b.adminHandler.HandleAdminMessage(ctx, chatID, userID, message.Text) {
		return
	}

	if message.IsCommand() {
		b.routeCommand(ctx, chatID, userID, message.Command(), message.CommandArguments())
		return
	}

	b.routeText(ctx, chatID, userID, strings.TrimSpace(message.Text))
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd, args string) {
	switch cmd {
	case "start":
		// deep-link payload: t.me/<bot>?start=<реферальный код>
		if code := strings.TrimSpace(args); code != "" {
			b.users.AttributeReferral(ctx, userID, code)
		}
		b.sendStart(chatID)

	case "help":
		b.sendStart(chatID)

	default:
		b.sendFallback(chatID)
	}
}

// routeText обрабатывает свободный текст: сначала кнопки меню,
// затем состояние диалога, затем подсказка про меню.
func (b *Bot) routeText(ctx context.Context, chatID, userID int64, text string) {
	menu := b.campaign.UI.Menu
	switch text {
	case menu.Terms:
		b.sendTerms(chatID)
		return
	case menu.Bonus:
		b.sendBonus(ctx, chatID, userID)
		return
	case menu.Balance:
		b.sendBalance(ctx, chatID, userID)
		return
	case menu.ConnectWallet:
		b.walletHandler.HandleConnect(ctx, chatID, userID)
		return
	case menu.Chat:
		b.startChat(ctx, chatID, userID)
		return
	}

	u, err := b.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		b.sendFallback(chatID)
		return
	}

	switch u.State.Kind {
	case users.StateChat:
		answer := b.recipeAI.Ask(ctx, userID, text)
		b.send(chatID, answer, b.menu)

	case users.StateAwaitingWallet:
		b.walletHandler.HandleAddressInput(ctx, chatID, userID, text, false)

	case users.StateAwaitingWalletChange:
		b.walletHandler.HandleAddressInput(ctx, chatID, userID, text, true)

	case users.StateAwaitingMission:
		b.missionHandler.HandleSubmission(ctx, chatID, userID, u.State.MissionID, text)

	default:
		b.sendFallback(chatID)
	}
}

// handleCallback обрабатывает нажатия inline-кнопок.
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	middleware.LogCallback(callback)

	if callback.From == nil || callback.Message == nil {
		return
	}

	// Подтверждаем кнопку сразу, иначе клиент крутит спиннер.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.WithError(err).Debug("callback answer failed")
	}

	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	if err := b.users.EnsureUser(ctx, userID, callback.From.UserName); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureUser failed")
	}

	// Кнопки — такое же взаимодействие: расчёт отложенных наград и здесь.
	b.settleDueRewards(ctx, chatID, userID)

	data := callback.Data
	switch {
	case data == keyboards.CallbackDailyCheckin:
		b.checkinHandler.HandleCheckin(ctx, chatID, userID)

	case data == keyboards.CallbackInviteFriend:
		b.sendInvite(ctx, chatID, userID)

	case data == keyboards.CallbackWalletConfirm:
		b.walletHandler.HandleConfirm(ctx, chatID, userID)

	case data == keyboards.CallbackWalletRetry:
		b.walletHandler.HandleRetry(ctx, chatID, userID)

	case data == keyboards.CallbackWalletChange:
		b.walletHandler.HandleChangeStart(ctx, chatID, userID)

	case data == keyboards.CallbackWalletChangeConfirm:
		b.walletHandler.HandleChangeConfirm(ctx, chatID, userID)

	case data == keyboards.CallbackWalletChangeRetry:
		b.walletHandler.HandleChangeRetry(ctx, chatID, userID)

	case strings.HasPrefix(data, keyboards.MissionCallbackPrefix):
		b.missionHandler.HandleStart(ctx, chatID, userID, strings.TrimPrefix(data, keyboards.MissionCallbackPrefix))

	default:
		log.WithField("data", data).Debug("unknown callback")
	}
}

// settleDueRewards начисляет созревшие отложенные награды и сообщает
// пользователю суммарный итог одним сообщением.
func (b *Bot) settleDueRewards(ctx context.Context, chatID, userID int64) {
	credited, err := b.rewards.SettleDue(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка расчёта отложенных наград")
		return
	}
	if len(credited) == 0 {
		return
	}

	var total int64
	for _, c := range credited {
		total += c.Amount
	}
	b.sendf(chatID, "🎉 Your delayed rewards are now credited: +%d points!", total)
}
