package checkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseCheckinDates(t *testing.T) {
	dates := ParseCheckinDates([]string{
		"checkin:2024-01-01",
		"checkin:2024-01-02",
		"checkin:not-a-date",
		"streak:3:2024-01-02", // чужой префикс
		"checkin:",
	})

	require.Len(t, dates, 2)
	_, ok := dates["2024-01-01"]
	assert.True(t, ok)
	_, ok = dates["2024-01-02"]
	assert.True(t, ok)
}

func TestStreak(t *testing.T) {
	dates := ParseCheckinDates([]string{
		"checkin:2024-01-01",
		"checkin:2024-01-02",
		"checkin:2024-01-03",
		"checkin:2024-01-05",
	})

	// Серия заканчивается в сегодняшнем дне
	assert.Equal(t, 3, Streak(dates, day("2024-01-03")))
	// Вчерашний разрыв обнуляет серию независимо от истории
	assert.Equal(t, 1, Streak(dates, day("2024-01-05")))
	// Нет чекина сегодня — серии нет
	assert.Equal(t, 0, Streak(dates, day("2024-01-04")))
	assert.Equal(t, 0, Streak(map[string]struct{}{}, day("2024-01-01")))
}
