package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m3rciful/coinbot/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.CoingeckoConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 2,
		TopLimit:       100,
		SearchLimit:    10,
	})
}

func TestTopCoins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "usd", q.Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", q.Get("order"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "false", q.Get("sparkline"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},
			{"id":"ethereum","symbol":"eth","name":"Ethereum"}
		]`))
	})

	coins, err := client.TopCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, "Ethereum", coins[1].Name)
}

func TestTopCoinsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	coins, err := client.TopCoins(context.Background())
	require.Error(t, err)
	assert.Nil(t, coins)
	assert.Contains(t, err.Error(), "502")
}

func TestTrendingCoinsUnwrapsItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/trending", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"coins":[
			{"item":{"id":"pepe","symbol":"pepe","name":"Pepe"}},
			{"item":{"id":"solana","symbol":"sol","name":"Solana"}}
		]}`))
	})

	coins, err := client.TrendingCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "pepe", coins[0].ID)
	assert.Equal(t, "Solana", coins[1].Name)
}

func TestSearchCoinsCapsResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "doge", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"coins":[
			{"id":"c1","symbol":"c1","name":"C1"},
			{"id":"c2","symbol":"c2","name":"C2"},
			{"id":"c3","symbol":"c3","name":"C3"},
			{"id":"c4","symbol":"c4","name":"C4"},
			{"id":"c5","symbol":"c5","name":"C5"},
			{"id":"c6","symbol":"c6","name":"C6"},
			{"id":"c7","symbol":"c7","name":"C7"},
			{"id":"c8","symbol":"c8","name":"C8"},
			{"id":"c9","symbol":"c9","name":"C9"},
			{"id":"c10","symbol":"c10","name":"C10"},
			{"id":"c11","symbol":"c11","name":"C11"}
		]}`))
	})

	coins, err := client.SearchCoins(context.Background(), "doge")
	require.NoError(t, err)
	assert.Len(t, coins, 10)
	assert.Equal(t, "c10", coins[9].ID)
}

func TestSearchCoinsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"coins":[]}`))
	})

	coins, err := client.SearchCoins(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, coins)
}

func TestCoinDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "bitcoin", q.Get("ids"))
		assert.Equal(t, "usd", q.Get("vs_currencies"))
		assert.Equal(t, "true", q.Get("include_24hr_change"))
		assert.Equal(t, "true", q.Get("include_market_cap"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":65000.5,"usd_24h_change":-2.3,"usd_market_cap":1280000000000}}`))
	})

	d, err := client.CoinDetail(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
	require.NotNil(t, d.Price)
	require.NotNil(t, d.Change24h)
	require.NotNil(t, d.MarketCap)
	assert.InDelta(t, 65000.5, *d.Price, 0.0001)
	assert.InDelta(t, -2.3, *d.Change24h, 0.0001)
	assert.InDelta(t, 1.28e12, *d.MarketCap, 1)
}

func TestCoinDetailMissingCoin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	d, err := client.CoinDetail(context.Background(), "nope", "usd")
	require.NoError(t, err)
	assert.Nil(t, d.Price)
	assert.Nil(t, d.Change24h)
	assert.Nil(t, d.MarketCap)
}

func TestCoinDetailPartialFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"obscura":{"eur":0.42}}`))
	})

	d, err := client.CoinDetail(context.Background(), "obscura", "eur")
	require.NoError(t, err)
	require.NotNil(t, d.Price)
	assert.InDelta(t, 0.42, *d.Price, 0.0001)
	assert.Nil(t, d.Change24h)
	assert.Nil(t, d.MarketCap)
}
