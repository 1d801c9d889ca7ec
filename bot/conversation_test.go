package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/coinbot/coingecko"
)

type fakeMarket struct {
	top         []coingecko.Coin
	topErr      error
	trending    []coingecko.Coin
	trendingErr error
	search      []coingecko.Coin
	searchErr   error
	detail      coingecko.Detail
	detailErr   error

	searchCalled   bool
	searchQuery    string
	detailCoin     string
	detailCurrency string
}

func (f *fakeMarket) TopCoins(context.Context) ([]coingecko.Coin, error) {
	return f.top, f.topErr
}

func (f *fakeMarket) TrendingCoins(context.Context) ([]coingecko.Coin, error) {
	return f.trending, f.trendingErr
}

func (f *fakeMarket) SearchCoins(_ context.Context, query string) ([]coingecko.Coin, error) {
	f.searchCalled = true
	f.searchQuery = query
	return f.search, f.searchErr
}

func (f *fakeMarket) CoinDetail(_ context.Context, coinID, currency string) (coingecko.Detail, error) {
	f.detailCoin = coinID
	f.detailCurrency = currency
	return f.detail, f.detailErr
}

func newTestConversation(client MarketData) *Conversation {
	return NewConversation(client, NewRenderer(nil), NewSessions())
}

func collect(replies *[]Reply) func(Reply) {
	return func(r Reply) { *replies = append(*replies, r) }
}

func TestStartResetsFromAnyStage(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	sess := cv.Sessions().Get(1)
	sess.Stage = StageChoosingCurrency
	sess.CoinID = "ethereum"

	var replies []Reply
	cv.Start(1, collect(&replies))

	fresh := cv.Sessions().Get(1)
	assert.Equal(t, StageMainMenu, fresh.Stage)
	assert.Empty(t, fresh.CoinID)

	require.Len(t, replies, 1)
	assert.Equal(t, "Welcome to the Crypto Price Bot! What would you like to do?", replies[0].Text)
	require.Len(t, replies[0].Options, 3)
	assert.False(t, replies[0].Edit)
}

func TestTopCoinsTransition(t *testing.T) {
	client := &fakeMarket{top: []coingecko.Coin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)

	var replies []Reply
	cv.Advance(context.Background(), sess, Event{Kind: EventTop100}, collect(&replies))

	require.Len(t, replies, 2)
	assert.Equal(t, "Fetching top cryptocurrencies, please wait...", replies[0].Text)
	assert.True(t, replies[0].Edit)

	list := replies[1]
	assert.Equal(t, "Top 100 Cryptocurrencies:", list.Text)
	assert.Equal(t, 2, list.PerRow)
	require.Len(t, list.Options, 3)
	assert.Equal(t, "crypto:bitcoin", list.Options[0].Token)
	assert.Equal(t, "main_menu", list.Options[2].Token)

	assert.Equal(t, StageChoosingCrypto, sess.Stage)
}

func TestTrendingTransition(t *testing.T) {
	client := &fakeMarket{trending: []coingecko.Coin{{ID: "pepe", Symbol: "pepe", Name: "Pepe"}}}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)

	var replies []Reply
	cv.Advance(context.Background(), sess, Event{Kind: EventTrending}, collect(&replies))

	require.Len(t, replies, 2)
	assert.Equal(t, "Trending Cryptocurrencies:", replies[1].Text)
	require.Len(t, replies[1].Options, 2)
	assert.Equal(t, StageChoosingCrypto, sess.Stage)
}

// The happy-path cycle: top100, a coin, a currency, and the machine is
// back at the main menu in exactly three transitions. The same holds
// when every fetch fails.
func TestThreeTransitionCycle(t *testing.T) {
	clients := map[string]*fakeMarket{
		"success": {
			top:    []coingecko.Coin{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}},
			detail: coingecko.Detail{Price: fptr(100), Change24h: fptr(1), MarketCap: fptr(1000)},
		},
		"failure": {
			topErr:    errors.New("boom"),
			detailErr: errors.New("boom"),
		},
	}

	for name, client := range clients {
		t.Run(name, func(t *testing.T) {
			cv := newTestConversation(client)
			sess := cv.Sessions().Get(1)
			emit := func(Reply) {}

			cv.Advance(context.Background(), sess, Event{Kind: EventTop100}, emit)
			assert.Equal(t, StageChoosingCrypto, sess.Stage)

			cv.Advance(context.Background(), sess, Event{Kind: EventCoinChosen, Coin: "bitcoin"}, emit)
			assert.Equal(t, StageChoosingCurrency, sess.Stage)
			assert.Equal(t, "bitcoin", sess.CoinID)

			cv.Advance(context.Background(), sess, Event{Kind: EventCurrencyChosen, Currency: "usd"}, emit)
			assert.Equal(t, StageMainMenu, sess.Stage)
		})
	}
}

func TestCoinChosenShowsCurrencies(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	sess := cv.Sessions().Get(1)
	sess.Stage = StageChoosingCrypto

	var replies []Reply
	cv.Advance(context.Background(), sess, Event{Kind: EventCoinChosen, Coin: "ethereum"}, collect(&replies))

	require.Len(t, replies, 1)
	assert.Equal(t, "Choose a currency:", replies[0].Text)
	assert.Len(t, replies[0].Options, len(SupportedCurrencies)+1)
	assert.Equal(t, "ethereum", sess.CoinID)
	assert.Equal(t, StageChoosingCurrency, sess.Stage)
}

func TestCurrencyChosenRendersCard(t *testing.T) {
	client := &fakeMarket{detail: coingecko.Detail{
		Price:     fptr(65000.5),
		Change24h: fptr(-2.3),
		MarketCap: fptr(1280000000000),
	}}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)
	sess.Stage = StageChoosingCurrency
	sess.CoinID = "bitcoin"

	var replies []Reply
	cv.Advance(context.Background(), sess, Event{Kind: EventCurrencyChosen, Currency: "usd"}, collect(&replies))

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Price: 65,000.50 USD")
	assert.Contains(t, replies[0].Text, "2.30%")
	assert.Contains(t, replies[0].Text, "Market Cap: 1,280,000,000,000 USD")
	require.Len(t, replies[0].Options, 1)
	assert.Equal(t, "main_menu", replies[0].Options[0].Token)

	assert.Equal(t, "bitcoin", client.detailCoin)
	assert.Equal(t, "usd", client.detailCurrency)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestCurrencyWithoutCoinFallsBackToBitcoin(t *testing.T) {
	client := &fakeMarket{}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)
	sess.Stage = StageChoosingCurrency

	cv.Advance(context.Background(), sess, Event{Kind: EventCurrencyChosen, Currency: "eur"}, func(Reply) {})

	assert.Equal(t, "bitcoin", client.detailCoin)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestDetailFetchErrorRendersNotFound(t *testing.T) {
	client := &fakeMarket{detailErr: errors.New("dial tcp: timeout")}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)
	sess.Stage = StageChoosingCurrency
	sess.CoinID = "dogecoin"

	var replies []Reply
	cv.Advance(context.Background(), sess, Event{Kind: EventCurrencyChosen, Currency: "usd"}, collect(&replies))

	require.Len(t, replies, 1)
	assert.Equal(t, "Sorry, I couldn't find the details for dogecoin.", replies[0].Text)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestSearchPrompt(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	sess := cv.Sessions().Get(1)

	var replies []Reply
	cv.Advance(context.Background(), sess, Event{Kind: EventSearch}, collect(&replies))

	require.Len(t, replies, 1)
	assert.Equal(t, "Please enter the name of the cryptocurrency you want to check:", replies[0].Text)
	assert.Equal(t, StageTypingSearch, sess.Stage)
}

func TestSearchWithResults(t *testing.T) {
	client := &fakeMarket{search: []coingecko.Coin{{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"}}}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)
	sess.Stage = StageTypingSearch

	var replies []Reply
	cv.Advance(context.Background(), sess, FreeText("  DogeCoin "), collect(&replies))

	assert.Equal(t, "dogecoin", client.searchQuery)
	require.Len(t, replies, 1)
	assert.Equal(t, "Search Results:", replies[0].Text)
	require.Len(t, replies[0].Options, 2)
	assert.Equal(t, StageChoosingCrypto, sess.Stage)
}

func TestSearchNoMatchReturnsToMainMenu(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	sess := cv.Sessions().Get(1)
	sess.Stage = StageTypingSearch

	var replies []Reply
	cv.Advance(context.Background(), sess, FreeText("dogecoin"), collect(&replies))

	require.Len(t, replies, 2)
	assert.Equal(t, "Sorry, I couldn't find any cryptocurrency matching your search.", replies[0].Text)
	assert.Empty(t, replies[0].Options)
	assert.Equal(t, "Welcome to the Crypto Price Bot! What would you like to do?", replies[1].Text)
	assert.Len(t, replies[1].Options, 3)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestSearchBlankInputSkipsLookup(t *testing.T) {
	client := &fakeMarket{}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)
	sess.Stage = StageTypingSearch

	var replies []Reply
	cv.Advance(context.Background(), sess, FreeText("   \n "), collect(&replies))

	assert.False(t, client.searchCalled)
	require.Len(t, replies, 2)
	assert.Equal(t, "Sorry, I couldn't find any cryptocurrency matching your search.", replies[0].Text)
	assert.Len(t, replies[1].Options, 3)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestSearchErrorReturnsToMainMenu(t *testing.T) {
	client := &fakeMarket{searchErr: errors.New("503")}
	cv := newTestConversation(client)
	sess := cv.Sessions().Get(1)
	sess.Stage = StageTypingSearch

	var replies []Reply
	cv.Advance(context.Background(), sess, FreeText("dogecoin"), collect(&replies))

	require.Len(t, replies, 2)
	assert.Equal(t, "An error occurred while searching for the cryptocurrency.", replies[0].Text)
	assert.Len(t, replies[1].Options, 3)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestFreeTextIgnoredOutsideSearch(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	sess := cv.Sessions().Get(1)

	var replies []Reply
	cv.Advance(context.Background(), sess, FreeText("hello"), collect(&replies))

	assert.Empty(t, replies)
	assert.Equal(t, StageMainMenu, sess.Stage)
}

func TestMainMenuTokenFromAnyStage(t *testing.T) {
	cv := newTestConversation(&fakeMarket{})
	for _, stage := range []Stage{StageMainMenu, StageChoosingCrypto, StageChoosingCurrency, StageTypingSearch} {
		sess := &Session{Stage: stage, CoinID: "ethereum"}

		var replies []Reply
		cv.Advance(context.Background(), sess, Event{Kind: EventMainMenu}, collect(&replies))

		require.Len(t, replies, 1, "stage %v", stage)
		assert.True(t, replies[0].Edit)
		assert.Equal(t, StageMainMenu, sess.Stage, "stage %v", stage)
	}
}
