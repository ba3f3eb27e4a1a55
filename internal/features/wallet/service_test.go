package wallet

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestValidAddress(t *testing.T) {
	assert.True(t, validAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.True(t, validAddress("0x52908400098527886e0f7030069857d2e4169ee7"))

	for _, bad := range []string{
		"52908400098527886E0F7030069857D2E4169EE7", // 40 hex без префикса
		"0X52908400098527886E0F7030069857D2E4169EE7",
		"0x5290840009852788",
		"0x52908400098527886E0F7030069857D2E4169EE7aa",
		"0xZZ908400098527886E0F7030069857D2E4169EE7",
		"",
	} {
		assert.False(t, validAddress(bad), bad)
	}
}

func TestAddressNormalization(t *testing.T) {
	// Один адрес в разных регистрах нормализуется в одну EIP-55 форму.
	a := ethcommon.HexToAddress("0x52908400098527886e0f7030069857d2e4169ee7").Hex()
	b := ethcommon.HexToAddress("0x52908400098527886E0F7030069857D2E4169EE7").Hex()
	assert.Equal(t, a, b)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", a)
}
