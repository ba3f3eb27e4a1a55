// Package wallet реализует двухфазную регистрацию кошелька:
// NONE → PENDING → CONFIRMED, плюс ограниченный поток смены адреса.
// service.go содержит переходы и начисления, связанные с регистрацией.
//
// Глобальная уникальность адреса обеспечивается частичным уникальным
// индексом по users.wallet_address: при гонке двух подтверждений одного
// адреса ровно одно пройдёт, второе получит ErrWalletTaken.
package wallet

import (
	"context"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"airdrop-bot/internal/common"
	"airdrop-bot/internal/config"
	"airdrop-bot/internal/features/ledger"
	"airdrop-bot/internal/features/users"
)

type Service struct {
	users    *users.Repository
	ledger   *ledger.Service
	campaign *config.Campaign
}

func NewService(usersRepo *users.Repository, ledgerService *ledger.Service, campaign *config.Campaign) *Service {
	return &Service{
		users:    usersRepo,
		ledger:   ledgerService,
		campaign: campaign,
	}
}

// ConfirmResult — исход подтверждения первой регистрации.
type ConfirmResult struct {
	Address           string // активный адрес после операции
	AlreadyRegistered bool   // кошелёк был подключён раньше, ничего не менялось
	Awarded           bool   // награда за регистрацию начислена именно сейчас
}

// ChangeResult — исход подтверждения смены кошелька.
type ChangeResult struct {
	OldAddress string
	NewAddress string
	Same       bool // новый адрес совпал с текущим, смена не выполнялась
}

// Stage валидирует адрес и кладёт его в слот ожидания, затирая прежний
// pending. Возвращает нормализованную (EIP-55) форму адреса.
// Нормализация закрывает лазейку "тот же адрес в другом регистре".
func (s *Service) Stage(ctx context.Context, userID int64, address string) (string, error) {
	if !validAddress(address) {
		return "", common.ErrInvalidWalletAddress
	}
	normalized := ethcommon.HexToAddress(address).Hex()

	if err := s.users.StagePendingWallet(ctx, userID, normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// validAddress проверяет формат 0x + 40 hex. IsHexAddress сам по себе
// принимает и голую hex-строку без префикса, поэтому префикс проверяем отдельно.
func validAddress(address string) bool {
	return strings.HasPrefix(address, "0x") && ethcommon.IsHexAddress(address)
}

// Confirm выполняет первую регистрацию: атомарно продвигает pending→active,
// чистит pending и состояние диалога, затем начисляет награду за регистрацию
// и, при наличии реферера, его бонус. Оба начисления идемпотентны по ключам
// журнала, так что повторное подтверждение ничего не доначислит.
func (s *Service) Confirm(ctx context.Context, userID int64) (*ConfirmResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Уже зарегистрирован — подтверждать нечего.
	if u.HasWallet() {
		return &ConfirmResult{Address: *u.WalletAddress, AlreadyRegistered: true}, nil
	}
	if u.WalletPending == nil {
		return nil, common.ErrNoPendingWallet
	}

	// Дружелюбная проверка занятости до UPDATE. Гонку всё равно закрывает
	// уникальный индекс внутри PromoteWallet.
	taken, err := s.users.WalletTakenByOther(ctx, userID, *u.WalletPending)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrWalletTaken
	}

	address, err := s.users.PromoteWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	awarded, err := s.ledger.CreditOnce(ctx, userID,
		ledger.KeyWalletRegister, ledger.CategoryWalletRegister,
		s.campaign.Points.WalletRegister, nil)
	if err != nil {
		// Кошелёк уже активен, недоначисленная награда — повод для алерта,
		// но не для отката регистрации.
		log.WithError(err).WithField("user_id", userID).Error("Награда за регистрацию не начислена")
	}

	s.creditReferrer(ctx, u)

	log.WithFields(log.Fields{
		"user_id": userID,
		"wallet":  address,
	}).Info("Кошелёк зарегистрирован")

	return &ConfirmResult{Address: address, Awarded: awarded}, nil
}

// creditReferrer начисляет рефереру бонус за квалифицированный реферал.
// Best-effort: дубликат отфильтрует ключ журнала, ошибку просто логируем.
func (s *Service) creditReferrer(ctx context.Context, referred *users.User) {
	if referred.ReferrerID == nil {
		return
	}
	referrerID := *referred.ReferrerID

	_, err := s.ledger.CreditOnce(ctx, referrerID,
		ledger.ReferralKey(referred.ID), ledger.CategoryReferral,
		s.campaign.Points.ReferralQualified,
		map[string]interface{}{"referred_user_id": referred.ID})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"referrer_id": referrerID,
			"referred_id": referred.ID,
		}).Warn("Реферальный бонус не начислен")
	}
}

// BeginChange переводит пользователя в режим смены кошелька.
// Доступно только при активном кошельке и не исчерпанном лимите смен;
// исчерпанный лимит в рамках диалога не решается — только поддержка.
func (s *Service) BeginChange(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.HasWallet() {
		return common.ErrNoWallet
	}
	if u.WalletChangeCount >= s.campaign.WalletChangeLimit {
		return common.ErrWalletChangeLimit
	}
	return s.users.ClearPendingWallet(ctx, userID, users.State{Kind: users.StateAwaitingWalletChange})
}

// ConfirmChange применяет смену адреса: pending→active, счётчик смен +1.
// Награды не начисляются — это не первая регистрация.
func (s *Service) ConfirmChange(ctx context.Context, userID int64) (*ChangeResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasWallet() {
		return nil, common.ErrNoWallet
	}
	if u.WalletPending == nil {
		return nil, common.ErrNoPendingWallet
	}

	old := *u.WalletAddress
	if *u.WalletPending == old {
		return &ChangeResult{OldAddress: old, NewAddress: old, Same: true}, nil
	}

	taken, err := s.users.WalletTakenByOther(ctx, userID, *u.WalletPending)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrWalletTaken
	}

	newAddress, err := s.users.ApplyWalletChange(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"old":     old,
		"new":     newAddress,
	}).Info("Кошелёк изменён")

	return &ChangeResult{OldAddress: old, NewAddress: newAddress}, nil
}

// Retry сбрасывает pending и возвращает диалог в состояние ввода адреса
// соответствующего потока.
func (s *Service) Retry(ctx context.Context, userID int64, change bool) error {
	state := users.State{Kind: users.StateAwaitingWallet}
	if change {
		state = users.State{Kind: users.StateAwaitingWalletChange}
	}
	return s.users.ClearPendingWallet(ctx, userID, state)
}
