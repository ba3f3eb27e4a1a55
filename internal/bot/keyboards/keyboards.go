// Package keyboards собирает клавиатуры бота: главное reply-меню
// и inline-кнопки экранов. Все callback data определены здесь же,
// чтобы разметка и маршрутизация не разъезжались.
package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"airdrop-bot/internal/config"
)

// Callback data inline-кнопок. Значения зафиксированы: они приходят
// обратно в апдейтах и маршрутизируются по точному совпадению.
const (
	CallbackDailyCheckin        = "daily_checkin"
	CallbackInviteFriend        = "invite_friend"
	CallbackWalletChange        = "wallet_change"
	CallbackWalletConfirm       = "wallet_confirm"
	CallbackWalletRetry         = "wallet_retry"
	CallbackWalletChangeConfirm = "wallet_change_confirm"
	CallbackWalletChangeRetry   = "wallet_change_retry"
	// Кнопки миссий несут id в данных: mission:<id>
	MissionCallbackPrefix = "mission:"
)

// MissionCallback возвращает callback data кнопки миссии.
func MissionCallback(missionID string) string {
	return MissionCallbackPrefix + missionID
}

// MainMenu — постоянная reply-клавиатура с пунктами главного меню.
func MainMenu(c *config.Campaign) tgbotapi.ReplyKeyboardMarkup {
	menu := c.UI.Menu
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menu.Terms),
			tgbotapi.NewKeyboardButton(menu.Chat),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menu.Bonus),
			tgbotapi.NewKeyboardButton(menu.Balance),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menu.ConnectWallet),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// WalletConfirm — подтверждение адреса при первой регистрации.
func WalletConfirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", CallbackWalletConfirm),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Re-enter", CallbackWalletRetry),
		),
	)
}

// WalletChangeConfirm — подтверждение нового адреса при смене.
func WalletChangeConfirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", CallbackWalletChangeConfirm),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Re-enter", CallbackWalletChangeRetry),
		),
	)
}

// WalletChangeOffer — кнопка запуска смены кошелька на экране Connect Wallet.
func WalletChangeOffer() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Change wallet", CallbackWalletChange),
		),
	)
}

// InviteFriend — кнопка получения реферальной ссылки на экране баланса.
func InviteFriend() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Invite friend", CallbackInviteFriend),
		),
	)
}

// MissionLink — кнопка перехода по внешней ссылке миссии.
func MissionLink(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Open link", url),
		),
	)
}

// BonusList — чекин и список миссий inline-кнопками.
func BonusList(c *config.Campaign) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✅ Daily Check-in (+%d)", c.Points.DailyCheckin),
				CallbackDailyCheckin,
			),
		),
	}
	for i := range c.Missions {
		m := &c.Missions[i]
		title := m.ButtonText
		if title == "" {
			title = m.ID
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, MissionCallback(m.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
