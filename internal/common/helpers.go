// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с датами в часовом поясе кампании и форматирование.
package common

import (
	"time"
	"unicode/utf8"
)

// DateLayout — формат даты в ключах идемпотентности (checkin:2024-01-03).
const DateLayout = "2006-01-02"

// DateIn возвращает календарную дату момента t в часовом поясе loc.
// Время обнуляется — сравниваем только дни.
func DateIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// TodayIn возвращает сегодняшнюю дату в часовом поясе loc.
func TodayIn(loc *time.Location) time.Time {
	return DateIn(time.Now(), loc)
}

// DateString форматирует дату в YYYY-MM-DD.
// Именно эта строка попадает в ключи идемпотентности,
// поэтому формат менять нельзя.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate обрезает строку до max байт для логов и диагностики.
// Срез откатывается к границе руны: разрезанный UTF-8 нельзя
// отправлять пользователю, Telegram такой текст отклоняет.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
