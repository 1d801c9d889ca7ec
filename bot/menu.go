package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/enescakir/emoji"

	"github.com/m3rciful/coinbot/coingecko"
)

// SupportedCurrencies is the closed set of quote currencies offered to
// the user. Codes are lowercase as the market data API expects them.
var SupportedCurrencies = []string{"usd", "eur", "gbp", "jpy", "aud", "cad", "chf", "cny", "inr"}

// Texts shown while navigating the menus.
const (
	mainMenuText       = "Welcome to the Crypto Price Bot! What would you like to do?"
	topCoinsTitle      = "Top 100 Cryptocurrencies:"
	trendingTitle      = "Trending Cryptocurrencies:"
	searchResultsTitle = "Search Results:"
	chooseCurrencyText = "Choose a currency:"

	fetchingTopText      = "Fetching top cryptocurrencies, please wait..."
	fetchingTrendingText = "Fetching trending cryptocurrencies, please wait..."
	searchPromptText     = "Please enter the name of the cryptocurrency you want to check:"

	searchNoMatchText = "Sorry, I couldn't find any cryptocurrency matching your search."
	searchErrorText   = "An error occurred while searching for the cryptocurrency."

	backLabel = "Back to Main Menu"
)

// MenuOption pairs a button label with the action token it fires.
type MenuOption struct {
	Label string
	Token string
}

// Renderer builds menu options and the coin detail card. The currency
// list is injected so tests can shrink it.
type Renderer struct {
	currencies []string
}

// NewRenderer builds a renderer over the given currency set, falling
// back to SupportedCurrencies when none are provided.
func NewRenderer(currencies []string) *Renderer {
	if len(currencies) == 0 {
		currencies = SupportedCurrencies
	}
	return &Renderer{currencies: currencies}
}

// Currencies exposes the configured currency codes.
func (r *Renderer) Currencies() []string {
	return r.currencies
}

// MainMenu lists the three entry actions.
func (r *Renderer) MainMenu() []MenuOption {
	return []MenuOption{
		{Label: "Top 100 Cryptocurrencies", Token: tokenTop100},
		{Label: "Trending Cryptocurrencies", Token: tokenTrending},
		{Label: "Search Cryptocurrency", Token: tokenSearch},
	}
}

// CoinList turns coins into selectable options, one per coin, plus a
// trailing back option. Missing names and symbols fall back to a
// placeholder rather than an empty label.
func (r *Renderer) CoinList(coins []coingecko.Coin) []MenuOption {
	opts := make([]MenuOption, 0, len(coins)+1)
	for _, coin := range coins {
		name := coin.Name
		if name == "" {
			name = "Unknown"
		}
		symbol := coin.Symbol
		if symbol == "" {
			symbol = "Unknown"
		}
		id := coin.ID
		if id == "" {
			id = "unknown"
		}
		opts = append(opts, MenuOption{
			Label: fmt.Sprintf("%s (%s)", name, strings.ToUpper(symbol)),
			Token: prefixCrypto + id,
		})
	}
	return append(opts, r.backOption())
}

// CurrencyList offers every supported currency plus the back option.
func (r *Renderer) CurrencyList() []MenuOption {
	opts := make([]MenuOption, 0, len(r.currencies)+1)
	for _, cur := range r.currencies {
		opts = append(opts, MenuOption{
			Label: strings.ToUpper(cur),
			Token: prefixCurrency + cur,
		})
	}
	return append(opts, r.backOption())
}

// BackOnly is the single-option keyboard under the detail card.
func (r *Renderer) BackOnly() []MenuOption {
	return []MenuOption{r.backOption()}
}

func (r *Renderer) backOption() MenuOption {
	return MenuOption{Label: backLabel, Token: tokenMainMenu}
}

// CoinDetail formats the price card for one coin in one currency.
// An empty detail renders the fixed not-found message; individually
// missing fields render as "N/A" instead of breaking the card.
func (r *Renderer) CoinDetail(coinID, currency string, d coingecko.Detail) string {
	if d.Empty() {
		return fmt.Sprintf("Sorry, I couldn't find the details for %s.", coinID)
	}

	cur := strings.ToUpper(currency)

	price := "N/A"
	if d.Price != nil {
		price = humanize.FormatFloat("#,###.##", *d.Price)
	}

	change := "N/A"
	if d.Change24h != nil {
		change = fmt.Sprintf("%v %.2f%%", changeGlyph(*d.Change24h), math.Abs(*d.Change24h))
	}

	marketCap := "N/A"
	if d.MarketCap != nil {
		marketCap = humanize.FormatFloat("#,###.", *d.MarketCap)
	}

	return fmt.Sprintf("%v %s (%s)\nPrice: %s %s\n24h Change: %s\nMarket Cap: %s %s",
		emoji.MoneyBag, capitalize(coinID), cur,
		price, cur,
		change,
		marketCap, cur,
	)
}

func changeGlyph(change float64) emoji.Emoji {
	switch {
	case change > 0:
		return emoji.RedTrianglePointedUp
	case change < 0:
		return emoji.RedTrianglePointedDown
	}
	return emoji.Minus
}

// capitalize uppercases the first byte only; coin ids are ASCII slugs.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
