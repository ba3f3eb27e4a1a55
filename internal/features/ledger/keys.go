// Package ledger — keys.go собирает ключи идемпотентности.
// Форматы зафиксированы историческими данными: менять их нельзя,
// иначе старые записи перестанут защищать от повторного начисления.
package ledger

import (
	"fmt"
	"time"
)

// KeyWalletRegister — фиксированный ключ награды за регистрацию кошелька.
// Один на пользователя: повторное подтверждение ничего не доначислит.
const KeyWalletRegister = "wallet_register"

// CheckinKeyPrefix — префикс ключей ежедневного чекина.
// По нему же стрик-движок выбирает историю чекинов из журнала.
const CheckinKeyPrefix = "checkin:"

// CheckinKey — ключ чекина за календарный день: checkin:2024-01-03.
// Дата берётся в часовом поясе кампании.
func CheckinKey(day time.Time) string {
	return CheckinKeyPrefix + day.Format("2006-01-02")
}

// StreakBonusKey — ключ стрик-бонуса: streak:3:2024-01-03.
// Дата в ключе позволяет получить бонус за тот же порог повторно,
// если стрик был прерван и набран заново.
func StreakBonusKey(days int, day time.Time) string {
	return fmt.Sprintf("streak:%d:%s", days, day.Format("2006-01-02"))
}

// MissionKey — ключ одноразовой награды за миссию: mission:<id>.
func MissionKey(missionID string) string {
	return "mission:" + missionID
}

// ReferralKey — ключ награды за квалифицированный реферал,
// в журнале РЕФЕРЕРА: referral:<id приглашённого>.
func ReferralKey(referredUserID int64) string {
	return fmt.Sprintf("referral:%d", referredUserID)
}
