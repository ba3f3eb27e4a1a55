package common

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateIn(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 23:30 UTC — в Сеуле уже следующий день.
	utc := time.Date(2024, 1, 3, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-04", DateString(DateIn(utc, seoul)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))

	// Многобайтовая руна не режется посередине: результат — валидный UTF-8.
	got := Truncate("каша из топора", 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ка", got)

	got = Truncate("김치찌개", 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "김", got)
}
