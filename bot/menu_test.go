package bot

import (
	"strings"
	"testing"

	"github.com/enescakir/emoji"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/coinbot/coingecko"
)

func fptr(v float64) *float64 { return &v }

func TestMainMenuOptions(t *testing.T) {
	r := NewRenderer(nil)
	opts := r.MainMenu()

	require.Len(t, opts, 3)
	assert.Equal(t, "top100", opts[0].Token)
	assert.Equal(t, "trending", opts[1].Token)
	assert.Equal(t, "search", opts[2].Token)
	assert.Equal(t, "Top 100 Cryptocurrencies", opts[0].Label)
}

func TestCoinListEmpty(t *testing.T) {
	r := NewRenderer(nil)
	opts := r.CoinList(nil)

	require.Len(t, opts, 1)
	assert.Equal(t, "main_menu", opts[0].Token)
	assert.Equal(t, "Back to Main Menu", opts[0].Label)
}

func TestCoinListLabelsAndTokens(t *testing.T) {
	r := NewRenderer(nil)
	opts := r.CoinList([]coingecko.Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	})

	require.Len(t, opts, 3)
	assert.Equal(t, "Bitcoin (BTC)", opts[0].Label)
	assert.Equal(t, "crypto:bitcoin", opts[0].Token)
	assert.Equal(t, "Ethereum (ETH)", opts[1].Label)
	assert.Equal(t, "crypto:ethereum", opts[1].Token)
	assert.Equal(t, "main_menu", opts[2].Token)
}

func TestCoinListPlaceholders(t *testing.T) {
	r := NewRenderer(nil)
	opts := r.CoinList([]coingecko.Coin{{}})

	require.Len(t, opts, 2)
	assert.Equal(t, "Unknown (UNKNOWN)", opts[0].Label)
	assert.Equal(t, "crypto:unknown", opts[0].Token)
}

func TestCurrencyList(t *testing.T) {
	r := NewRenderer(nil)
	opts := r.CurrencyList()

	require.Len(t, opts, len(SupportedCurrencies)+1)
	assert.Equal(t, "USD", opts[0].Label)
	assert.Equal(t, "currency:usd", opts[0].Token)
	assert.Equal(t, "INR", opts[len(SupportedCurrencies)-1].Label)
	assert.Equal(t, "main_menu", opts[len(opts)-1].Token)
}

func TestCoinDetailFullCard(t *testing.T) {
	r := NewRenderer(nil)
	card := r.CoinDetail("bitcoin", "usd", coingecko.Detail{
		Price:     fptr(65000.5),
		Change24h: fptr(-2.3),
		MarketCap: fptr(1280000000000),
	})

	lines := strings.Split(card, "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "Bitcoin (USD)")
	assert.Equal(t, "Price: 65,000.50 USD", lines[1])
	assert.Contains(t, lines[2], emoji.RedTrianglePointedDown.String())
	assert.Contains(t, lines[2], "2.30%")
	assert.Equal(t, "Market Cap: 1,280,000,000,000 USD", lines[3])

	// Currency code appears once on the price line and once on the
	// market cap line.
	assert.Equal(t, 1, strings.Count(lines[1], "USD"))
	assert.Equal(t, 1, strings.Count(lines[3], "USD"))
}

func TestCoinDetailGlyphFollowsSign(t *testing.T) {
	r := NewRenderer(nil)

	// Literal glyphs on purpose: the card must carry these exact
	// characters no matter which constants produce them.
	up := r.CoinDetail("bitcoin", "eur", coingecko.Detail{
		Price: fptr(1), Change24h: fptr(2.3), MarketCap: fptr(1),
	})
	assert.Contains(t, up, "\U0001F53A") // 🔺

	down := r.CoinDetail("bitcoin", "eur", coingecko.Detail{
		Price: fptr(1), Change24h: fptr(-2.3), MarketCap: fptr(1),
	})
	assert.Contains(t, down, "\U0001F53B") // 🔻

	flat := r.CoinDetail("bitcoin", "eur", coingecko.Detail{
		Price: fptr(1), Change24h: fptr(0), MarketCap: fptr(1),
	})
	assert.Contains(t, flat, "➖")
	assert.Contains(t, flat, "0.00%")
}

func TestCoinDetailUppercasesCurrencyEverywhere(t *testing.T) {
	r := NewRenderer(nil)
	for _, cur := range SupportedCurrencies {
		card := r.CoinDetail("bitcoin", cur, coingecko.Detail{
			Price: fptr(10), Change24h: fptr(1), MarketCap: fptr(100),
		})
		upper := strings.ToUpper(cur)
		lines := strings.Split(card, "\n")
		require.Len(t, lines, 4, "currency %s", cur)
		assert.True(t, strings.HasSuffix(lines[1], " "+upper), "currency %s price line: %s", cur, lines[1])
		assert.True(t, strings.HasSuffix(lines[3], " "+upper), "currency %s cap line: %s", cur, lines[3])
	}
}

func TestCoinDetailEmpty(t *testing.T) {
	r := NewRenderer(nil)
	for _, cur := range []string{"usd", "jpy"} {
		card := r.CoinDetail("dogecoin", cur, coingecko.Detail{})
		assert.Equal(t, "Sorry, I couldn't find the details for dogecoin.", card)
	}
}

func TestCoinDetailMissingFields(t *testing.T) {
	r := NewRenderer(nil)
	card := r.CoinDetail("obscura", "eur", coingecko.Detail{Price: fptr(0.42)})

	lines := strings.Split(card, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Price: 0.42 EUR", lines[1])
	assert.Equal(t, "24h Change: N/A", lines[2])
	assert.Equal(t, "Market Cap: N/A EUR", lines[3])
}
