// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/common"
)

// LogMessage логирует входящее сообщение.
// Текст обрезается: в нём могут быть адреса кошельков и длинные сабмиты.
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.UserName,
		"text":     common.Truncate(message.Text, 50),
	}).Debug("Входящее сообщение")
}

// LogCallback логирует нажатие inline-кнопки.
func LogCallback(callback *tgbotapi.CallbackQuery) {
	if callback == nil || callback.From == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":  callback.From.ID,
		"username": callback.From.UserName,
		"data":     common.Truncate(callback.Data, 50),
	}).Debug("Входящий callback")
}
