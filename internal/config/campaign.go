// Package config — campaign.go загружает статическую конфигурацию кампании
// из JSON-файла. Файл читается один раз при старте; структура после загрузки
// неизменяемая и передаётся компонентам явно, а не через глобальное состояние.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Campaign — конфигурация кампании: тексты меню, баллы, миссии, таймзона.
type Campaign struct {
	Timezone  string `json:"timezone"`
	TermsText string `json:"terms_text"`

	UI struct {
		Menu MenuLabels `json:"menu"`
	} `json:"ui"`

	Points Points `json:"points"`

	// Сколько раз пользователь может сменить кошелёк после регистрации.
	WalletChangeLimit int `json:"wallet_change_limit"`

	Missions []Mission `json:"missions"`

	loc *time.Location
}

// MenuLabels — подписи кнопок главного меню.
type MenuLabels struct {
	Terms         string `json:"terms"`
	Chat          string `json:"chat"`
	Bonus         string `json:"bonus"`
	Balance       string `json:"balance"`
	ConnectWallet string `json:"connect_wallet"`
}

// Points — номиналы начислений.
type Points struct {
	WalletRegister    int64         `json:"wallet_register"`
	ReferralQualified int64         `json:"referral_qualified"`
	DailyCheckin      int64         `json:"daily_checkin"`
	StreakBonuses     []StreakBonus `json:"streak_bonuses"`
}

// StreakBonus — бонус за стрик ровно в days дней.
type StreakBonus struct {
	Days   int   `json:"days"`
	Points int64 `json:"points"`
}

// Mission — одна миссия кампании. Неизменяема на время жизни процесса.
type Mission struct {
	ID           string `json:"id"`
	ButtonText   string `json:"button_text"`
	Points       int64  `json:"points"`
	DelayMinutes int    `json:"delay_minutes"`
	URL          string `json:"url"`
	Validator    string `json:"validator"`
	Prompt       string `json:"prompt"`
	Intro        string `json:"intro"`
}

// Delay возвращает задержку начисления миссии (0 = начисляем сразу).
func (m *Mission) Delay() time.Duration {
	return time.Duration(m.DelayMinutes) * time.Minute
}

// LoadCampaign читает и валидирует файл кампании.
// Отсутствующий или битый файл — фатальная ошибка старта:
// без конфигурации кампании боту нечего раздавать.
func LoadCampaign(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("файл кампании %s не прочитан: %w", path, err)
	}
	return ParseCampaign(data)
}

// ParseCampaign разбирает JSON кампании и применяет дефолты.
// Вынесено отдельно от чтения файла ради тестируемости.
func ParseCampaign(data []byte) (*Campaign, error) {
	var c Campaign
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("некорректный JSON кампании: %w", err)
	}

	c.applyDefaults()

	if err := c.validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("неизвестная таймзона кампании %q: %w", c.Timezone, err)
	}
	c.loc = loc

	// Бонусы сортируем по дням и выбрасываем бессмысленные правила.
	valid := c.Points.StreakBonuses[:0]
	for _, b := range c.Points.StreakBonuses {
		if b.Days > 0 && b.Points != 0 {
			valid = append(valid, b)
		}
	}
	c.Points.StreakBonuses = valid
	sort.Slice(c.Points.StreakBonuses, func(i, j int) bool {
		return c.Points.StreakBonuses[i].Days < c.Points.StreakBonuses[j].Days
	})

	return &c, nil
}

func (c *Campaign) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Asia/Seoul"
	}
	if c.TermsText == "" {
		c.TermsText = "📄 Terms"
	}
	m := &c.UI.Menu
	if m.Terms == "" {
		m.Terms = "📄 Terms"
	}
	if m.Chat == "" {
		m.Chat = "🤖 Chat"
	}
	if m.Bonus == "" {
		m.Bonus = "💰 Bonus"
	}
	if m.Balance == "" {
		m.Balance = "🏆 Balance"
	}
	if m.ConnectWallet == "" {
		m.ConnectWallet = "🦊 Connect Wallet"
	}
	if c.Points.WalletRegister == 0 {
		c.Points.WalletRegister = 50
	}
	if c.Points.ReferralQualified == 0 {
		c.Points.ReferralQualified = 100
	}
	if c.Points.DailyCheckin == 0 {
		c.Points.DailyCheckin = 10
	}
	if c.WalletChangeLimit == 0 {
		c.WalletChangeLimit = 1
	}
}

func (c *Campaign) validate() error {
	seen := make(map[string]bool, len(c.Missions))
	for i := range c.Missions {
		m := &c.Missions[i]
		if m.ID == "" {
			return fmt.Errorf("миссия #%d без id", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("дублирующийся id миссии %q", m.ID)
		}
		seen[m.ID] = true
		if m.Points < 0 {
			return fmt.Errorf("миссия %q: отрицательные баллы", m.ID)
		}
		if m.DelayMinutes < 0 {
			return fmt.Errorf("миссия %q: отрицательная задержка", m.ID)
		}
	}
	return nil
}

// Location возвращает часовой пояс кампании.
func (c *Campaign) Location() *time.Location {
	return c.loc
}

// Mission ищет миссию по id. nil, если миссии нет в каталоге.
func (c *Campaign) Mission(id string) *Mission {
	for i := range c.Missions {
		if c.Missions[i].ID == id {
			return &c.Missions[i]
		}
	}
	return nil
}
