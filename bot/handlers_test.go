package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkupForCoinListLayout(t *testing.T) {
	markup := markupFor(Reply{
		Options: []MenuOption{
			{Label: "Bitcoin (BTC)", Token: "crypto:bitcoin"},
			{Label: "Ethereum (ETH)", Token: "crypto:ethereum"},
			{Label: "Solana (SOL)", Token: "crypto:solana"},
			{Label: "Back to Main Menu", Token: "main_menu"},
		},
		PerRow: 2,
	})

	require.NotNil(t, markup)
	rows := markup.InlineKeyboard
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 1)
	require.Len(t, rows[2], 1)
	assert.Equal(t, "main_menu", rows[2][0].Data)
	assert.Equal(t, "crypto:bitcoin", rows[0][0].Data)
	assert.Empty(t, rows[0][0].Unique)
}

func TestMarkupForOnePerRow(t *testing.T) {
	markup := markupFor(Reply{
		Options: []MenuOption{
			{Label: "USD", Token: "currency:usd"},
			{Label: "EUR", Token: "currency:eur"},
			{Label: "Back to Main Menu", Token: "main_menu"},
		},
	})

	require.NotNil(t, markup)
	rows := markup.InlineKeyboard
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 1)
	}
}

func TestMarkupForNoOptions(t *testing.T) {
	assert.Nil(t, markupFor(Reply{Text: "plain"}))
}

func TestExpectsText(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	assert.False(t, cv.ExpectsText(5))

	sess := cv.Sessions().Get(5)
	sess.Stage = StageTypingSearch
	assert.True(t, cv.ExpectsText(5))

	sess.Stage = StageMainMenu
	assert.False(t, cv.ExpectsText(5))
}
