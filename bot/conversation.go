package bot

import (
	"context"
	"strings"

	"log/slog"

	"github.com/m3rciful/coinbot/coingecko"
	"github.com/m3rciful/coinbot/core/logger"
)

// defaultCoinID is substituted when a currency arrives without a coin
// ever being chosen. Deliberate convenience, not an error path.
const defaultCoinID = "bitcoin"

// MarketData is the slice of the price API the dialog needs.
type MarketData interface {
	TopCoins(ctx context.Context) ([]coingecko.Coin, error)
	TrendingCoins(ctx context.Context) ([]coingecko.Coin, error)
	SearchCoins(ctx context.Context, query string) ([]coingecko.Coin, error)
	CoinDetail(ctx context.Context, coinID, currency string) (coingecko.Detail, error)
}

// Reply is one outbound render step: a text body, optional inline
// options, and whether the triggering message should be edited in
// place rather than answered with a new message.
type Reply struct {
	Text    string
	Options []MenuOption
	// PerRow lays coin options out in rows of this width; the trailing
	// back option always gets its own row. Zero means one per row.
	PerRow int
	Edit   bool
}

// Conversation drives the dialog: it applies one parsed event to a
// session, calls the market data API as the transition requires, and
// emits the replies to render. Emission order is significant (the
// fetch placeholder precedes the result list).
type Conversation struct {
	client   MarketData
	menu     *Renderer
	sessions *Sessions
}

// NewConversation wires the dialog over a market data client, a menu
// renderer and a session store.
func NewConversation(client MarketData, menu *Renderer, sessions *Sessions) *Conversation {
	return &Conversation{client: client, menu: menu, sessions: sessions}
}

// Sessions exposes the underlying session store.
func (cv *Conversation) Sessions() *Sessions {
	return cv.sessions
}

// Menu exposes the renderer, mainly for command handlers that need the
// main menu outside a dialog transition.
func (cv *Conversation) Menu() *Renderer {
	return cv.menu
}

// Advance applies one event to the session and emits replies through
// the callback. Fetch failures are logged and degrade to an empty
// result; the session always lands in a well-defined stage.
func (cv *Conversation) Advance(ctx context.Context, sess *Session, ev Event, emit func(Reply)) {
	switch ev.Kind {
	case EventMainMenu:
		cv.showMainMenu(sess, true, emit)

	case EventTop100:
		emit(Reply{Text: fetchingTopText, Edit: true})
		coins, err := cv.client.TopCoins(ctx)
		if err != nil {
			logger.Warn(ctx, "bot", "top100.fetch_fail",
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			coins = nil
		}
		emit(Reply{Text: topCoinsTitle, Options: cv.menu.CoinList(coins), PerRow: 2, Edit: true})
		sess.Stage = StageChoosingCrypto

	case EventTrending:
		emit(Reply{Text: fetchingTrendingText, Edit: true})
		coins, err := cv.client.TrendingCoins(ctx)
		if err != nil {
			logger.Warn(ctx, "bot", "trending.fetch_fail",
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			coins = nil
		}
		emit(Reply{Text: trendingTitle, Options: cv.menu.CoinList(coins), PerRow: 2, Edit: true})
		sess.Stage = StageChoosingCrypto

	case EventSearch:
		emit(Reply{Text: searchPromptText, Edit: true})
		sess.Stage = StageTypingSearch

	case EventCoinChosen:
		sess.CoinID = ev.Coin
		emit(Reply{Text: chooseCurrencyText, Options: cv.menu.CurrencyList(), Edit: true})
		sess.Stage = StageChoosingCurrency

	case EventCurrencyChosen:
		coinID := sess.CoinID
		if coinID == "" {
			logger.Warn(ctx, "bot", "currency.no_coin_selected",
				slog.String("currency", ev.Currency),
				slog.String("fallback", defaultCoinID),
			)
			coinID = defaultCoinID
		}
		detail, err := cv.client.CoinDetail(ctx, coinID, ev.Currency)
		if err != nil {
			logger.Warn(ctx, "bot", "detail.fetch_fail",
				slog.String("coin_id", coinID),
				slog.String("currency", ev.Currency),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			detail = coingecko.Detail{}
		}
		emit(Reply{Text: cv.menu.CoinDetail(coinID, ev.Currency, detail), Options: cv.menu.BackOnly(), Edit: true})
		sess.Stage = StageMainMenu

	case EventFreeText:
		if sess.Stage != StageTypingSearch {
			return
		}
		query := strings.ToLower(strings.TrimSpace(ev.Text))
		if query == "" {
			emit(Reply{Text: searchNoMatchText})
			cv.showMainMenu(sess, false, emit)
			return
		}
		coins, err := cv.client.SearchCoins(ctx, query)
		switch {
		case err != nil:
			emit(Reply{Text: searchErrorText})
			cv.showMainMenu(sess, false, emit)
		case len(coins) == 0:
			emit(Reply{Text: searchNoMatchText})
			cv.showMainMenu(sess, false, emit)
		default:
			emit(Reply{Text: searchResultsTitle, Options: cv.menu.CoinList(coins), PerRow: 2})
			sess.Stage = StageChoosingCrypto
		}
	}
}

// Start resets the session and shows the main menu; backs /start and
// works from any stage.
func (cv *Conversation) Start(userID int64, emit func(Reply)) {
	sess := cv.sessions.Reset(userID)
	cv.showMainMenu(sess, false, emit)
}

func (cv *Conversation) showMainMenu(sess *Session, edit bool, emit func(Reply)) {
	emit(Reply{Text: mainMenuText, Options: cv.menu.MainMenu(), Edit: edit})
	sess.Stage = StageMainMenu
	sess.CoinID = ""
}
