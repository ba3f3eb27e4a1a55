// Package checkin реализует ежедневный чекин и стрики.
// streak.go - чистая логика: стрик не хранится, а выводится
// из ключей чекина в журнале при каждом обращении.
package checkin

import (
	"strings"
	"time"

	"airdrop-bot/internal/common"
	"airdrop-bot/internal/features/ledger"
)

// ParseCheckinDates извлекает даты из ключей вида checkin:2024-01-03.
// Ключи с битой датой молча пропускаются.
func ParseCheckinDates(keys []string) map[string]struct{} {
	dates := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		raw := strings.TrimPrefix(key, ledger.CheckinKeyPrefix)
		if raw == key {
			continue
		}
		if _, err := time.Parse(common.DateLayout, raw); err != nil {
			continue
		}
		dates[raw] = struct{}{}
	}
	return dates
}

// Streak считает непрерывную серию чекинов, заканчивающуюся в today.
// Идём от today назад по дням, пока даты есть в наборе.
// Если сегодняшнего чекина нет - стрик равен нулю.
func Streak(dates map[string]struct{}, today time.Time) int {
	streak := 0
	day := today
	for {
		if _, ok := dates[common.DateString(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
