// handlers.go - экраны миссий: запуск по кнопке и приём текста
package missions

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/bot/keyboards"
	"airdrop-bot/internal/config"
	"airdrop-bot/internal/features/users"
)

type Handler struct {
	service  *Service
	users    *users.Service
	campaign *config.Campaign
	api      *tgbotapi.BotAPI
	menu     tgbotapi.ReplyKeyboardMarkup
}

func NewHandler(service *Service, usersService *users.Service, campaign *config.Campaign, api *tgbotapi.BotAPI, menu tgbotapi.ReplyKeyboardMarkup) *Handler {
	return &Handler{service: service, users: usersService, campaign: campaign, api: api, menu: menu}
}

// HandleStart — нажатие кнопки миссии в списке бонусов.
// Миссии доступны только после регистрации кошелька.
func (h *Handler) HandleStart(ctx context.Context, chatID, userID int64, missionID string) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}
	if !u.HasWallet() {
		h.reply(chatID, "Please connect your wallet first!", h.menu)
		return
	}

	m := h.campaign.Mission(missionID)
	if m == nil {
		h.reply(chatID, "Mission is not configured. Please try again.", h.menu)
		return
	}

	if err := h.users.SetState(ctx, userID, users.AwaitingMission(m.ID)); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка установки состояния")
	}

	text := m.Prompt
	if m.Intro != "" {
		text = m.Intro + "\n\n" + m.Prompt
	}

	if m.URL != "" {
		h.reply(chatID, text, keyboards.MissionLink(m.URL))
		return
	}
	h.reply(chatID, text, h.menu)
}

// HandleSubmission — текст, присланный в состоянии ожидания миссии.
func (h *Handler) HandleSubmission(ctx context.Context, chatID, userID int64, missionID, text string) {
	m := h.campaign.Mission(missionID)
	if m == nil {
		// Миссию убрали из конфигурации, пока пользователь думал.
		if err := h.users.ClearState(ctx, userID); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("Ошибка сброса состояния")
		}
		h.reply(chatID, "Mission is not configured. Please try again.", h.menu)
		return
	}

	res, err := h.service.Submit(ctx, userID, m, text)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "mission": m.ID}).Error("Ошибка обработки сабмита")
		h.reply(chatID, "Something went wrong. Please try again.", h.menu)
		return
	}

	switch res.Outcome {
	case OutcomeInvalid:
		h.reply(chatID, res.Message, h.menu)
	case OutcomeDuplicateContent:
		h.reply(chatID,
			"⚠️ This recipe looks already submitted by someone else.\n"+
				"Please submit an original recipe (different content).",
			h.menu)
	case OutcomeCredited:
		if res.Awarded {
			h.reply(chatID, fmt.Sprintf("✅ Saved. +%d points!", res.Points), h.menu)
		} else {
			h.reply(chatID, "✅ Saved. (points already granted)", h.menu)
		}
	case OutcomeScheduled:
		if res.AlreadyScheduled {
			h.reply(chatID, "✅ Saved. (reward already scheduled)", h.menu)
		} else {
			h.reply(chatID, fmt.Sprintf(
				"✅ Saved.\nYour points will be credited after verification. Estimated time: %d minutes.",
				m.DelayMinutes), h.menu)
		}
	}
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
