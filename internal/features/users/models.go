// Package users управляет участниками кампании: регистрацией, реферальными
// кодами и слотом состояния диалога.
// models.go описывает структуру пользователя и кодек состояния.
package users

import (
	"strings"
	"time"
)

// User представляет участника кампании в базе данных.
// Создаётся при первом взаимодействии и никогда не удаляется.
type User struct {
	ID                int64     `db:"id"`                  // Telegram user ID (внешний, стабильный)
	Username          string    `db:"username"`            // Отображаемое имя (@username, может меняться)
	ReferralCode      string    `db:"referral_code"`       // Уникальный код, назначается один раз
	ReferrerID        *int64    `db:"referrer_id"`         // Кто пригласил (ставится максимум один раз)
	WalletAddress     *string   `db:"wallet_address"`      // Активный кошелёк (глобально уникален)
	WalletPending     *string   `db:"wallet_pending"`      // Адрес, ожидающий подтверждения
	WalletChangeCount int       `db:"wallet_change_count"` // Сколько раз кошелёк уже меняли
	State             State     `db:"state"`               // Текущее состояние диалога
	CreatedAt         time.Time `db:"created_at"`
}

// HasWallet сообщает, подключён ли активный кошелёк.
func (u *User) HasWallet() bool {
	return u.WalletAddress != nil && *u.WalletAddress != ""
}

// StateKind — вид состояния диалога.
type StateKind int

// Состояния диалога. У пользователя ровно один активный слот:
// установка нового состояния вытесняет предыдущее, таймаутов нет.
const (
	StateNone StateKind = iota
	StateAwaitingWallet
	StateAwaitingWalletChange
	StateChat
	StateAwaitingMission
)

// State — помеченное объединение: вид состояния плюс полезная нагрузка
// (id миссии для StateAwaitingMission). В БД хранится одной nullable-колонкой,
// но разбор строки происходит только здесь, на границе с хранилищем.
type State struct {
	Kind      StateKind
	MissionID string // заполнен только для StateAwaitingMission
}

// Строковые значения колонки state. Формат зафиксирован схемой.
const (
	rawAwaitWallet       = "AWAIT_WALLET"
	rawAwaitWalletChange = "AWAIT_WALLET_CHANGE"
	rawChat              = "AI_CHAT"
	rawMissionPrefix     = "MISSION:"
)

// AwaitingMission возвращает состояние ожидания сабмита конкретной миссии.
func AwaitingMission(missionID string) State {
	return State{Kind: StateAwaitingMission, MissionID: missionID}
}

// ParseState восстанавливает State из значения колонки.
// nil и нераспознанные значения трактуются как отсутствие состояния:
// застрявший мусор в колонке не должен ломать диалог.
func ParseState(raw *string) State {
	if raw == nil {
		return State{}
	}
	switch s := strings.TrimSpace(*raw); {
	case s == rawAwaitWallet:
		return State{Kind: StateAwaitingWallet}
	case s == rawAwaitWalletChange:
		return State{Kind: StateAwaitingWalletChange}
	case s == rawChat:
		return State{Kind: StateChat}
	case strings.HasPrefix(s, rawMissionPrefix):
		id := strings.TrimPrefix(s, rawMissionPrefix)
		if id == "" {
			return State{}
		}
		return AwaitingMission(id)
	default:
		return State{}
	}
}

// Encode сериализует State для записи в колонку.
// StateNone кодируется как NULL.
func (s State) Encode() *string {
	var raw string
	switch s.Kind {
	case StateAwaitingWallet:
		raw = rawAwaitWallet
	case StateAwaitingWalletChange:
		raw = rawAwaitWalletChange
	case StateChat:
		raw = rawChat
	case StateAwaitingMission:
		raw = rawMissionPrefix + s.MissionID
	default:
		return nil
	}
	return &raw
}
