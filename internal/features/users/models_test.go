package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestStateCodec(t *testing.T) {
	cases := []struct {
		state State
		raw   string
	}{
		{State{Kind: StateAwaitingWallet}, "AWAIT_WALLET"},
		{State{Kind: StateAwaitingWalletChange}, "AWAIT_WALLET_CHANGE"},
		{State{Kind: StateChat}, "AI_CHAT"},
		{AwaitingMission("recipe_submit"), "MISSION:recipe_submit"},
	}

	for _, tc := range cases {
		encoded := tc.state.Encode()
		require.NotNil(t, encoded)
		assert.Equal(t, tc.raw, *encoded)
		assert.Equal(t, tc.state, ParseState(encoded))
	}
}

func TestStateNoneEncodesNil(t *testing.T) {
	assert.Nil(t, State{}.Encode())
	assert.Equal(t, State{}, ParseState(nil))
}

func TestParseStateUnrecognized(t *testing.T) {
	// Незнакомое значение из старых версий схемы не должно ломать диалог.
	assert.Equal(t, State{}, ParseState(strptr("LEGACY_STATE")))
	assert.Equal(t, State{}, ParseState(strptr("")))
}

func TestParseStateMissionID(t *testing.T) {
	st := ParseState(strptr("MISSION:follow_x"))
	assert.Equal(t, StateAwaitingMission, st.Kind)
	assert.Equal(t, "follow_x", st.MissionID)
}

func TestHasWallet(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasWallet())
	u.WalletAddress = strptr("0x52908400098527886E0F7030069857D2E4169EE7")
	assert.True(t, u.HasWallet())
}
