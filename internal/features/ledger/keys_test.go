package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKeyFormats(t *testing.T) {
	day := time.Date(2024, 1, 3, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "wallet_register", KeyWalletRegister)
	assert.Equal(t, "checkin:2024-01-03", CheckinKey(day))
	assert.Equal(t, "streak:7:2024-01-03", StreakBonusKey(7, day))
	assert.Equal(t, "mission:recipe_submit", MissionKey("recipe_submit"))
	assert.Equal(t, "referral:12345", ReferralKey(12345))
}

func TestCheckinKeyUsesDateOnly(t *testing.T) {
	// Время суток не участвует: два чекина в один день дают один ключ.
	morning := time.Date(2024, 1, 3, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 3, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, CheckinKey(morning), CheckinKey(evening))
}
