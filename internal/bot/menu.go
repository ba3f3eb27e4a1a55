// menu.go - экраны главного меню: приветствие, условия, бонусы,
// баланс, реферальная ссылка и вход в AI-чат
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/bot/keyboards"
	"airdrop-bot/internal/features/users"
)

func (b *Bot) sendStart(chatID int64) {
	b.send(chatID,
		"Welcome! Use the menu below.\n\n"+
			"• Connect Wallet: register your BSC wallet\n"+
			"• Bonus: do missions to earn points\n"+
			"• Balance: check your points & invite friends",
		b.menu)
}

func (b *Bot) sendTerms(chatID int64) {
	b.send(chatID, b.campaign.TermsText, b.menu)
}

func (b *Bot) sendFallback(chatID int64) {
	b.send(chatID, "Use the menu buttons below.", b.menu)
}

// sendBonus — экран миссий: описание правил, стрик-бонусы и кнопки.
// Экран доступен только с подключённым кошельком.
func (b *Bot) sendBonus(ctx context.Context, chatID, userID int64) {
	u, err := b.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		b.sendFallback(chatID)
		return
	}
	if !u.HasWallet() {
		b.send(chatID, "Please connect your wallet first!", b.menu)
		return
	}

	lines := []string{
		"🎁 Bonus Missions\n" +
			"Complete missions and earn points.\n" +
			"Points are granted once per mission and may be reviewed for abuse.\n",
		"🗓️ Daily Check-in\n" +
			fmt.Sprintf("• Tap once per day to claim +%d points.\n", b.campaign.Points.DailyCheckin) +
			"• Keep your streak going to unlock extra bonuses!\n",
	}

	if len(b.campaign.Points.StreakBonuses) > 0 {
		parts := make([]string, 0, len(b.campaign.Points.StreakBonuses))
		for _, sb := range b.campaign.Points.StreakBonuses {
			parts = append(parts, fmt.Sprintf("%d days → +%d", sb.Days, sb.Points))
		}
		lines = append(lines, "🔥 Streak Bonuses\n• "+strings.Join(parts, ", ")+"\n")
	}

	lines = append(lines, "🚀 Social Missions (Submit after you complete the task)")
	for i := range b.campaign.Missions {
		m := &b.campaign.Missions[i]
		title := m.ButtonText
		if title == "" {
			title = m.ID
		}
		lines = append(lines, fmt.Sprintf("• %s → +%d points", title, m.Points))
	}

	b.send(chatID, strings.Join(lines, "\n"), keyboards.BonusList(b.campaign))
}

// sendBalance — баллы и реферальная статистика.
func (b *Bot) sendBalance(ctx context.Context, chatID, userID int64) {
	u, err := b.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		b.sendFallback(chatID)
		return
	}
	if !u.HasWallet() {
		b.send(chatID, "Please connect your wallet first!", b.menu)
		return
	}

	points, err := b.ledger.Balance(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения баланса")
		b.sendFallback(chatID)
		return
	}
	total, qualified, err := b.users.ReferralCounts(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения рефералов")
		b.sendFallback(chatID)
		return
	}

	text := fmt.Sprintf(
		"Balance: %d points 🎯\n"+
			"Total referrals: %d\n"+
			"Qualified referrals (wallet connected): %d\n\n"+
			"Invite friends and earn more points.\n"+
			"Share your referral link below — you’ll get bonus points when they connect a wallet.",
		points, total, qualified)

	b.send(chatID, text, keyboards.InviteFriend())
}

// sendInvite — персональная реферальная ссылка.
func (b *Bot) sendInvite(ctx context.Context, chatID, userID int64) {
	u, err := b.users.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка чтения пользователя")
		b.sendFallback(chatID)
		return
	}
	if !u.HasWallet() {
		b.send(chatID, "Please connect your wallet first!", b.menu)
		return
	}

	refLink := fmt.Sprintf("https://t.me/%s?start=%s", b.cfg.BotUsername, u.ReferralCode)
	b.send(chatID,
		"👥 Invite friend\n\n"+
			"Your referral link:\n"+refLink+"\n\n"+
			"You earn bonus points when your friend connects a wallet.",
		b.menu)
}

// startChat переводит диалог в режим общения с Recipe AI.
func (b *Bot) startChat(ctx context.Context, chatID, userID int64) {
	if err := b.users.SetState(ctx, userID, users.State{Kind: users.StateChat}); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Ошибка установки состояния")
	}

	b.send(chatID,
		"🤖 Recipe AI Chat\n\n"+
			"Send me a message about recipes (ingredients, steps, substitutions, etc.).\n"+
			"To exit, press another menu button.",
		b.menu)
}

func (b *Bot) send(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

func (b *Bot) sendf(chatID int64, format string, args ...interface{}) {
	b.send(chatID, fmt.Sprintf(format, args...), b.menu)
}
