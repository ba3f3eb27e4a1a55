// Package wallet — handlers.go обрабатывает экран Connect Wallet,
// ввод адреса и кнопки подтверждения обоих потоков.
package wallet

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/bot/keyboards"
	"airdrop-bot/internal/common"
	"airdrop-bot/internal/features/users"
)

type Handler struct {
	service *Service
	users   *users.Service
	api     *tgbotapi.BotAPI
	menu    tgbotapi.ReplyKeyboardMarkup
}

func NewHandler(service *Service, usersService *users.Service, api *tgbotapi.BotAPI, menu tgbotapi.ReplyKeyboardMarkup) *Handler {
	return &Handler{service: service, users: usersService, api: api, menu: menu}
}

// HandleConnect — пункт меню Connect Wallet.
// С активным кошельком показывает адрес и предлагает смену,
// без него — переводит диалог в ожидание адреса.
func (h *Handler) HandleConnect(ctx context.Context, chatID, userID int64) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}

	if u.HasWallet() {
		text := fmt.Sprintf(
			"🦊 Connect Wallet\n\n✅ Wallet already registered:\n%s\n\nNeed to change it?",
			*u.WalletAddress,
		)
		h.reply(chatID, text, keyboards.WalletChangeOffer())
		return
	}

	if err := h.users.SetState(ctx, userID, users.State{Kind: users.StateAwaitingWallet}); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка установки состояния")
	}

	h.reply(chatID,
		"🦊 Connect Wallet\n\n"+
			"Connect a non-custodial wallet that supports EVM networks "+
			"(like Metamask, Rabby, Trust Wallet, etc.).\n\n"+
			"Enter your BSC wallet address:",
		h.menu)
}

// HandleAddressInput — свободный текст в состояниях ожидания адреса.
// Невалидный формат не меняет состояние: пользователь просто пробует снова.
func (h *Handler) HandleAddressInput(ctx context.Context, chatID, userID int64, text string, change bool) {
	staged, err := h.service.Stage(ctx, userID, text)
	if err != nil {
		if errors.Is(err, common.ErrInvalidWalletAddress) {
			h.reply(chatID, "The wallet address is not correct. Check it out!", nil)
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка сохранения адреса")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}

	if change {
		h.reply(chatID,
			fmt.Sprintf("Please confirm your NEW wallet address:\n%s\n\nIs it correct?", staged),
			keyboards.WalletChangeConfirm())
		return
	}
	h.reply(chatID,
		fmt.Sprintf("Please confirm your wallet address:\n%s\n\nIs it correct?", staged),
		keyboards.WalletConfirm())
}

// HandleConfirm — кнопка подтверждения первой регистрации.
func (h *Handler) HandleConfirm(ctx context.Context, chatID, userID int64) {
	res, err := h.service.Confirm(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNoPendingWallet):
		h.reply(chatID, "No pending wallet found. Please try Connect Wallet again.", nil)
		return
	case errors.Is(err, common.ErrWalletTaken):
		h.reply(chatID,
			"❌ This wallet address is already registered by another user.\n"+
				"Please use a different wallet.", nil)
		return
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка подтверждения кошелька")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}

	if res.AlreadyRegistered {
		h.reply(chatID, "✅ Wallet already registered.", h.menu)
		return
	}
	h.reply(chatID,
		fmt.Sprintf("✅ You have successfully registered your wallet:\n%s", res.Address),
		h.menu)
}

// HandleRetry — кнопка "Re-enter" первого потока.
func (h *Handler) HandleRetry(ctx context.Context, chatID, userID int64) {
	if err := h.service.Retry(ctx, userID, false); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка сброса pending")
	}
	h.reply(chatID, "Enter your BSC wallet address again:", h.menu)
}

// HandleChangeStart — кнопка "Change wallet".
func (h *Handler) HandleChangeStart(ctx context.Context, chatID, userID int64) {
	err := h.service.BeginChange(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNoWallet):
		h.reply(chatID, "Please connect your wallet first!", h.menu)
		return
	case errors.Is(err, common.ErrWalletChangeLimit):
		h.reply(chatID,
			"⚠️ Wallet change is limited.\n"+
				"Please contact support if you really need to update it.", h.menu)
		return
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка входа в режим смены")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}

	h.reply(chatID, "🔁 Change Wallet\n\nPlease enter your NEW BSC wallet address (0x...):", h.menu)
}

// HandleChangeConfirm — кнопка подтверждения смены.
func (h *Handler) HandleChangeConfirm(ctx context.Context, chatID, userID int64) {
	res, err := h.service.ConfirmChange(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNoWallet):
		h.reply(chatID, "No existing wallet found. Use Connect Wallet first.", h.menu)
		return
	case errors.Is(err, common.ErrNoPendingWallet):
		h.reply(chatID, "No pending wallet found. Please try again.", h.menu)
		return
	case errors.Is(err, common.ErrWalletTaken):
		h.reply(chatID,
			"❌ This wallet address is already registered by another user.\n"+
				"Please use a different wallet.", h.menu)
		return
	default:
		log.WithError(err).WithField("user_id", userID).Error("Ошибка смены кошелька")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}

	if res.Same {
		h.reply(chatID, "✅ This is the same wallet as current. No changes made.", h.menu)
		return
	}
	h.reply(chatID,
		fmt.Sprintf("✅ Wallet updated successfully.\n\nOld: %s\nNew: %s", res.OldAddress, res.NewAddress),
		h.menu)
}

// HandleChangeRetry — кнопка "Re-enter" потока смены.
func (h *Handler) HandleChangeRetry(ctx context.Context, chatID, userID int64) {
	if err := h.service.Retry(ctx, userID, true); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка сброса pending")
	}
	h.reply(chatID, "Enter your NEW BSC wallet address again:", h.menu)
}

func (h *Handler) reply(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
