package coingecko

// Coin identifies a listed asset. ID is the CoinGecko slug used in
// follow-up price lookups, Symbol the ticker shorthand.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Detail carries the price facts for one coin in one currency.
// Nil fields mean the API response omitted the value.
type Detail struct {
	Price     *float64
	Change24h *float64
	MarketCap *float64
}

// Empty reports whether the lookup produced no values at all, which
// covers both unknown coin ids and failed requests downgraded by the
// caller.
func (d Detail) Empty() bool {
	return d.Price == nil && d.Change24h == nil && d.MarketCap == nil
}

// trendingResponse mirrors /search/trending: each entry wraps the coin
// under an "item" key.
type trendingResponse struct {
	Coins []struct {
		Item Coin `json:"item"`
	} `json:"coins"`
}

// searchResponse mirrors /search. Only the coins section is used.
type searchResponse struct {
	Coins []Coin `json:"coins"`
}

// priceResponse mirrors /simple/price: coin id -> metric key -> value,
// where metric keys are "<cur>", "<cur>_24h_change", "<cur>_market_cap".
type priceResponse map[string]map[string]float64
