package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCampaignDefaults(t *testing.T) {
	c, err := ParseCampaign([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "Asia/Seoul", c.Timezone)
	assert.NotNil(t, c.Location())
	assert.Equal(t, "🦊 Connect Wallet", c.UI.Menu.ConnectWallet)
	assert.Equal(t, int64(50), c.Points.WalletRegister)
	assert.Equal(t, int64(100), c.Points.ReferralQualified)
	assert.Equal(t, int64(10), c.Points.DailyCheckin)
	assert.Equal(t, 1, c.WalletChangeLimit)
}

func TestParseCampaignStreakBonuses(t *testing.T) {
	raw := `{
		"points": {
			"streak_bonuses": [
				{"days": 7, "points": 70},
				{"days": 0, "points": 5},
				{"days": 3, "points": 0},
				{"days": 3, "points": 30}
			]
		}
	}`
	c, err := ParseCampaign([]byte(raw))
	require.NoError(t, err)

	// Бессмысленные правила выброшены, остальные отсортированы по дням.
	require.Len(t, c.Points.StreakBonuses, 2)
	assert.Equal(t, 3, c.Points.StreakBonuses[0].Days)
	assert.Equal(t, int64(30), c.Points.StreakBonuses[0].Points)
	assert.Equal(t, 7, c.Points.StreakBonuses[1].Days)
}

func TestParseCampaignRejectsBadMissions(t *testing.T) {
	cases := map[string]string{
		"без id":            `{"missions":[{"button_text":"x"}]}`,
		"дубль id":          `{"missions":[{"id":"a"},{"id":"a"}]}`,
		"минус баллы":       `{"missions":[{"id":"a","points":-1}]}`,
		"минус задержка":    `{"missions":[{"id":"a","delay_minutes":-5}]}`,
		"битая таймзона":    `{"timezone":"Mars/Olympus"}`,
		"некорректный json": `{`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCampaign([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestCampaignMissionLookup(t *testing.T) {
	raw := `{"missions":[
		{"id":"follow_x", "points": 20, "validator": "x_profile"},
		{"id":"recipe_submit", "points": 100, "delay_minutes": 30, "validator": "recipe_text"}
	]}`
	c, err := ParseCampaign([]byte(raw))
	require.NoError(t, err)

	m := c.Mission("recipe_submit")
	require.NotNil(t, m)
	assert.Equal(t, int64(100), m.Points)
	assert.Equal(t, 30, m.DelayMinutes)
	assert.Equal(t, "30m0s", m.Delay().String())

	assert.Nil(t, c.Mission("unknown"))
}
