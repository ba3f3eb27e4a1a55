// handlers.go - кнопка ежедневного чекина
package checkin

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

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

// HandleCheckin — нажатие Daily check-in. Доступно только с кошельком.
func (h *Handler) HandleCheckin(ctx context.Context, chatID, userID int64) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		h.reply(chatID, "Something went wrong. Please try again.")
		return
	}
	if !u.HasWallet() {
		h.reply(chatID, "Please connect your wallet first!")
		return
	}

	res, err := h.service.CheckIn(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чекина")
		h.reply(chatID, "Something went wrong. Please try again.")
		return
	}

	if res.Awarded {
		h.reply(chatID, fmt.Sprintf(
			"✅ Daily check-in complete! +%d points.\nCurrent streak: %d day(s).",
			res.Points, res.Streak))
	} else {
		h.reply(chatID, fmt.Sprintf(
			"✅ You already checked in today.\nCurrent streak: %d day(s).",
			res.Streak))
	}

	for _, b := range res.Bonuses {
		h.reply(chatID, fmt.Sprintf("🔥 Streak bonus (%d days): +%d points!", b.Days, b.Points))
	}
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = h.menu
	if _, err := h.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
