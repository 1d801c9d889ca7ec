package bot

import "strings"

// Action tokens carried by inline buttons. Coin and currency picks are
// prefixed tokens with the id or code as suffix.
const (
	tokenMainMenu = "main_menu"
	tokenTop100   = "top100"
	tokenTrending = "trending"
	tokenSearch   = "search"

	prefixCrypto   = "crypto:"
	prefixCurrency = "currency:"
)

// EventKind enumerates the closed set of inputs the dialog reacts to.
type EventKind int

const (
	EventMainMenu EventKind = iota
	EventTop100
	EventTrending
	EventSearch
	EventCoinChosen
	EventCurrencyChosen
	EventFreeText
)

// Event is a parsed user input. Exactly one payload field is set,
// matching the kind: Coin for EventCoinChosen, Currency for
// EventCurrencyChosen, Text for EventFreeText.
type Event struct {
	Kind     EventKind
	Coin     string
	Currency string
	Text     string
}

// ParseToken maps a raw callback token onto an Event. It reports false
// for tokens outside the known set, including currency codes that are
// not in the supported list — those never reach the dialog.
func ParseToken(token string, currencies []string) (Event, bool) {
	token = strings.TrimSpace(token)
	switch token {
	case tokenMainMenu:
		return Event{Kind: EventMainMenu}, true
	case tokenTop100:
		return Event{Kind: EventTop100}, true
	case tokenTrending:
		return Event{Kind: EventTrending}, true
	case tokenSearch:
		return Event{Kind: EventSearch}, true
	}

	if id, ok := strings.CutPrefix(token, prefixCrypto); ok {
		id = strings.TrimSpace(id)
		if id == "" {
			return Event{}, false
		}
		return Event{Kind: EventCoinChosen, Coin: id}, true
	}

	if code, ok := strings.CutPrefix(token, prefixCurrency); ok {
		code = strings.ToLower(strings.TrimSpace(code))
		for _, cur := range currencies {
			if code == cur {
				return Event{Kind: EventCurrencyChosen, Currency: code}, true
			}
		}
		return Event{}, false
	}

	return Event{}, false
}

// FreeText wraps a typed message as a dialog event.
func FreeText(text string) Event {
	return Event{Kind: EventFreeText, Text: text}
}
