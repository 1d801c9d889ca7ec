package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/m3rciful/coinbot/core/config"
	"github.com/m3rciful/coinbot/core/logger"
)

// Client talks to the CoinGecko v3 REST API. All methods honour the
// caller's context and return an error for transport failures and
// non-2xx responses; callers decide how that maps onto chat replies.
type Client struct {
	baseURL     string
	httpc       *http.Client
	topLimit    int
	searchLimit int
}

// New builds a client from configuration. The base URL is expected to
// be normalised already (no trailing slash).
func New(cfg config.CoingeckoConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		topLimit:    cfg.TopLimit,
		searchLimit: cfg.SearchLimit,
	}
}

// TopCoins lists the top coins by market capitalisation, usd-quoted.
func (c *Client) TopCoins(ctx context.Context) ([]Coin, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(c.topLimit))
	q.Set("page", "1")
	q.Set("sparkline", "false")

	var coins []Coin
	if err := c.getJSON(ctx, "markets", "/coins/markets", q, &coins); err != nil {
		return nil, err
	}
	logger.Debug(ctx, "coingecko", "markets.ok", slog.Int("count", len(coins)))
	return coins, nil
}

// TrendingCoins lists the coins currently trending on CoinGecko.
func (c *Client) TrendingCoins(ctx context.Context) ([]Coin, error) {
	var resp trendingResponse
	if err := c.getJSON(ctx, "trending", "/search/trending", nil, &resp); err != nil {
		return nil, err
	}

	coins := make([]Coin, 0, len(resp.Coins))
	for _, entry := range resp.Coins {
		coins = append(coins, entry.Item)
	}
	logger.Debug(ctx, "coingecko", "trending.ok", slog.Int("count", len(coins)))
	return coins, nil
}

// SearchCoins matches coins by free-text query, capped at the
// configured search limit. An empty result with nil error means the
// query genuinely matched nothing.
func (c *Client) SearchCoins(ctx context.Context, query string) ([]Coin, error) {
	q := url.Values{}
	q.Set("query", query)

	var resp searchResponse
	if err := c.getJSON(ctx, "search", "/search", q, &resp); err != nil {
		return nil, err
	}

	coins := resp.Coins
	if c.searchLimit > 0 && len(coins) > c.searchLimit {
		coins = coins[:c.searchLimit]
	}
	logger.Debug(ctx, "coingecko", "search.ok",
		slog.String("query", logger.Sanitize(query)),
		slog.Int("results", len(coins)),
	)
	return coins, nil
}

// CoinDetail fetches price, 24h change and market cap for one coin in
// one currency. Fields the API omits stay nil in the returned Detail;
// an unknown coin id yields a zero Detail with nil error.
func (c *Client) CoinDetail(ctx context.Context, coinID, currency string) (Detail, error) {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", currency)
	q.Set("include_24hr_change", "true")
	q.Set("include_market_cap", "true")

	var resp priceResponse
	if err := c.getJSON(ctx, "simple_price", "/simple/price", q, &resp); err != nil {
		return Detail{}, err
	}

	metrics, ok := resp[coinID]
	if !ok {
		logger.Warn(ctx, "coingecko", "simple_price.missing_coin",
			slog.String("coin_id", coinID),
			slog.String("currency", currency),
		)
		return Detail{}, nil
	}

	var d Detail
	if v, ok := metrics[currency]; ok {
		d.Price = &v
	}
	if v, ok := metrics[currency+"_24h_change"]; ok {
		d.Change24h = &v
	}
	if v, ok := metrics[currency+"_market_cap"]; ok {
		d.MarketCap = &v
	}
	return d, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("coingecko: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		logger.Error(ctx, "coingecko", op+".fail",
			slog.String("url", path),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
		return fmt.Errorf("coingecko: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		logger.Error(ctx, "coingecko", op+".fail",
			slog.String("url", path),
			slog.Int("http_code", resp.StatusCode),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
		return fmt.Errorf("coingecko: %s returned status %d", op, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Error(ctx, "coingecko", op+".decode_fail",
			slog.String("url", path),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return fmt.Errorf("coingecko: decode %s response: %w", op, err)
	}

	logger.Debug(ctx, "coingecko", op+".done",
		slog.String("url", path),
		slog.Int("http_code", resp.StatusCode),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return nil
}
