package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsGetCreatesAtMainMenu(t *testing.T) {
	s := NewSessions()
	sess := s.Get(42)

	require.NotNil(t, sess)
	assert.Equal(t, StageMainMenu, sess.Stage)
	assert.Empty(t, sess.CoinID)
	assert.Equal(t, 1, s.Len())

	// Same user gets the same session back.
	sess.Stage = StageChoosingCurrency
	assert.Equal(t, StageChoosingCurrency, s.Get(42).Stage)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsReset(t *testing.T) {
	s := NewSessions()
	sess := s.Get(7)
	sess.Stage = StageChoosingCurrency
	sess.CoinID = "ethereum"

	fresh := s.Reset(7)
	assert.Equal(t, StageMainMenu, fresh.Stage)
	assert.Empty(t, fresh.CoinID)
	assert.Equal(t, 1, s.Len())
}

func TestSessionsStagePeekDoesNotCreate(t *testing.T) {
	s := NewSessions()
	assert.Equal(t, StageMainMenu, s.Stage(99))
	assert.Equal(t, 0, s.Len())
}
