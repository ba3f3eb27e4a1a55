// Package admin — handlers.go обрабатывает команды панели поддержки.
// Панель работает в личных сообщениях по командам с аргументами.
// Поток: /login → пароль → рабочие команды в рамках 24-часовой сессии.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/common"
	"airdrop-bot/internal/features/checkin"
	"airdrop-bot/internal/features/ledger"
	"airdrop-bot/internal/features/missions"
	"airdrop-bot/internal/features/rewards"
	"airdrop-bot/internal/features/users"
)

// Handler обрабатывает админ-команды.
type Handler struct {
	service  *Service
	users    *users.Repository
	ledger   *ledger.Service
	missions *missions.Service
	rewards  *rewards.Service
	checkin  *checkin.Service
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик панели поддержки.
func NewHandler(service *Service, usersRepo *users.Repository, ledgerService *ledger.Service,
	missionsService *missions.Service, rewardsService *rewards.Service, checkinService *checkin.Service,
	bot *tgbotapi.BotAPI) *Handler {
	return &Handler{
		service:  service,
		users:    usersRepo,
		ledger:   ledgerService,
		missions: missionsService,
		rewards:  rewardsService,
		checkin:  checkinService,
		bot:      bot,
	}
}

// HandleAdminMessage обрабатывает сообщение от администратора в DM.
// Возвращает false, если сообщение не относится к панели — тогда оно
// идёт обычным пользовательским маршрутом.
func (h *Handler) HandleAdminMessage(ctx context.Context, chatID int64, userID int64, text string) bool {
	if !h.service.IsAdmin(userID) {
		return false
	}

	// Ввод пароля после /login
	state := h.service.GetState(userID)
	if state != nil && state.State == StateAwaitingPassword {
		h.handlePasswordInput(ctx, chatID, userID, text)
		return true
	}

	cmd, arg := splitCommand(text)

	if cmd == "/login" {
		if h.service.HasActiveSession(ctx, userID) {
			h.sendMessage(chatID, "✅ You are already logged in.")
			return true
		}
		// Пароль можно дать сразу аргументом или следующим сообщением.
		if arg != "" {
			h.handlePasswordInput(ctx, chatID, userID, arg)
			return true
		}
		h.sendMessage(chatID, "🔐 Enter the admin password:")
		h.service.SetState(userID, StateAwaitingPassword)
		return true
	}

	switch cmd {
	case "/logout", "/stats", "/user", "/resetchange":
	default:
		return false // не админ-команда
	}

	if !h.service.HasActiveSession(ctx, userID) {
		h.sendMessage(chatID, "🔐 Session expired. Use /login first.")
		return true
	}
	h.service.repo.UpdateActivity(ctx, userID)

	switch cmd {
	case "/logout":
		h.handleLogout(ctx, chatID, userID)
	case "/stats":
		h.handleStats(ctx, chatID)
	case "/user":
		h.handleUser(ctx, chatID, arg)
	case "/resetchange":
		h.handleResetChange(ctx, chatID, arg)
	}
	return true
}

// handlePasswordInput обрабатывает ввод пароля.
func (h *Handler) handlePasswordInput(ctx context.Context, chatID int64, userID int64, password string) {
	h.service.ClearState(userID)

	if err := h.service.VerifyPassword(ctx, userID, password); err != nil {
		switch {
		case errors.Is(err, common.ErrTooManyAttempts):
			h.sendMessage(chatID, "❌ Too many attempts. Try again in an hour.")
		case errors.Is(err, common.ErrWrongPassword):
			h.sendMessage(chatID, "❌ Wrong password.")
		default:
			log.WithError(err).WithField("user_id", userID).Error("Ошибка проверки пароля")
			h.sendMessage(chatID, "❌ Login failed. Try again later.")
		}
		return
	}

	h.sendMessage(chatID,
		"✅ Authenticated.\n\n"+
			"Commands:\n"+
			"/user <id> — user card\n"+
			"/resetchange <id> — reset wallet change limit\n"+
			"/stats — campaign stats\n"+
			"/logout — close session")
}

func (h *Handler) handleLogout(ctx context.Context, chatID, userID int64) {
	if err := h.service.Logout(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка завершения сессии")
		h.sendMessage(chatID, "❌ Logout failed.")
		return
	}
	h.sendMessage(chatID, "👋 Session closed.")
}

// handleStats — сводка кампании.
func (h *Handler) handleStats(ctx context.Context, chatID int64) {
	total, withWallet, err := h.users.Counts(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта пользователей")
		h.sendMessage(chatID, "❌ Failed to collect stats.")
		return
	}
	issued, err := h.ledger.TotalIssued(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта баллов")
		h.sendMessage(chatID, "❌ Failed to collect stats.")
		return
	}
	submissions, err := h.missions.CountSubmissions(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта сабмитов")
		h.sendMessage(chatID, "❌ Failed to collect stats.")
		return
	}
	pending, err := h.rewards.CountPending(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта очереди наград")
		h.sendMessage(chatID, "❌ Failed to collect stats.")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"📊 Campaign stats\n\n"+
			"Users: %d\n"+
			"Wallets connected: %d\n"+
			"Points issued: %d\n"+
			"Mission submissions: %d\n"+
			"Pending rewards: %d",
		total, withWallet, issued, submissions, pending))
}

// handleUser — карточка пользователя по Telegram ID.
func (h *Handler) handleUser(ctx context.Context, chatID int64, arg string) {
	targetID, ok := parseUserID(arg)
	if !ok {
		h.sendMessage(chatID, "Usage: /user <telegram id>")
		return
	}

	u, err := h.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			h.sendMessage(chatID, "User not found.")
			return
		}
		log.WithError(err).WithField("target_id", targetID).Error("Ошибка чтения пользователя")
		h.sendMessage(chatID, "❌ Lookup failed.")
		return
	}

	balance, err := h.ledger.Balance(ctx, targetID)
	if err != nil {
		log.WithError(err).WithField("target_id", targetID).Error("Ошибка чтения баланса")
		h.sendMessage(chatID, "❌ Lookup failed.")
		return
	}
	streak, err := h.checkin.CurrentStreak(ctx, targetID)
	if err != nil {
		log.WithError(err).WithField("target_id", targetID).Error("Ошибка чтения стрика")
		h.sendMessage(chatID, "❌ Lookup failed.")
		return
	}
	refTotal, refQualified, err := h.users.ReferralCounts(ctx, targetID)
	if err != nil {
		log.WithError(err).WithField("target_id", targetID).Error("Ошибка чтения рефералов")
		h.sendMessage(chatID, "❌ Lookup failed.")
		return
	}

	wallet := "—"
	if u.WalletAddress != nil {
		wallet = *u.WalletAddress
	}
	pending := "—"
	if u.WalletPending != nil {
		pending = *u.WalletPending
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"👤 User %d (@%s)\n\n"+
			"Wallet: %s\n"+
			"Pending wallet: %s\n"+
			"Wallet changes used: %d\n"+
			"Balance: %d points\n"+
			"Streak: %d day(s)\n"+
			"Referrals: %d (%d qualified)\n"+
			"State: %s",
		u.ID, u.Username, wallet, pending, u.WalletChangeCount,
		balance, streak, refTotal, refQualified, describeState(u.State)))
}

// handleResetChange обнуляет счётчик смен кошелька.
func (h *Handler) handleResetChange(ctx context.Context, chatID int64, arg string) {
	targetID, ok := parseUserID(arg)
	if !ok {
		h.sendMessage(chatID, "Usage: /resetchange <telegram id>")
		return
	}

	if err := h.users.ResetWalletChangeCount(ctx, targetID); err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			h.sendMessage(chatID, "User not found.")
			return
		}
		log.WithError(err).WithField("target_id", targetID).Error("Ошибка сброса лимита смен")
		h.sendMessage(chatID, "❌ Reset failed.")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Wallet change limit reset for user %d.", targetID))
}

func describeState(st users.State) string {
	if raw := st.Encode(); raw != nil {
		return *raw
	}
	return "—"
}

func splitCommand(text string) (cmd, arg string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "", ""
	}
	cmd = fields[0]
	if len(fields) > 1 {
		arg = fields[1]
	}
	return cmd, arg
}

func parseUserID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
