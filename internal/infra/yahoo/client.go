package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockbot/internal/domain"
	"stockbot/internal/infra"

	"github.com/shopspring/decimal"
)

const fetchMaxAttempts = 3

// Client is the Yahoo Finance REST API client (Boundary Layer)
type Client struct {
	chartURL   string
	searchURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Yahoo Finance client.
func NewClient(cfg *infra.Config) *Client {
	timeout := time.Duration(cfg.API.Yahoo.TimeoutSec) * time.Second

	return &Client{
		chartURL:  strings.TrimRight(cfg.API.Yahoo.ChartURL, "/"),
		searchURL: cfg.API.Yahoo.SearchURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "yahoo_client"),
	}
}

// Quote fetches the current market snapshot for a symbol.
// Returns domain.ErrSymbolNotFound when the provider knows nothing about it.
func (c *Client) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	var quote *domain.Quote
	err := c.withRetry(ctx, "quote", func() error {
		res, err := c.fetchChart(ctx, symbol, "1d")
		if err != nil {
			return err
		}
		quote = res.quote()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// History fetches up to the given number of calendar days of daily closes.
// Null closes (market holidays, partial sessions) are skipped.
func (c *Client) History(ctx context.Context, symbol string, days int) (domain.History, error) {
	var hist domain.History
	err := c.withRetry(ctx, "history", func() error {
		res, err := c.fetchChart(ctx, symbol, fmt.Sprintf("%dd", days))
		if err != nil {
			return err
		}
		hist = res.history()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(hist) == 0 {
		return nil, domain.ErrNoData
	}
	return hist, nil
}

// Search looks up tickers matching a free-form query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	var results []domain.SearchResult
	err := c.withRetry(ctx, "search", func() error {
		var err error
		results, err = c.doSearch(ctx, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// withRetry runs fn with exponential backoff (1s, 2s, 4s) on retriable errors.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for i := 0; i < fetchMaxAttempts; i++ {
		if i > 0 {
			delay := infra.CalculateBackoff(i - 1)
			c.logger.Info("Retrying fetch", slog.String("op", op), slog.Int("attempt", i), slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		start := time.Now()
		err := fn()
		infra.GlobalMetrics.RecordFetch(time.Since(start).Nanoseconds())
		if err == nil {
			return nil
		}
		lastErr = err
		infra.GlobalMetrics.RecordProviderError()
		if !domain.IsRetriable(err) {
			return err
		}
		c.logger.Warn("Fetch attempt failed", slog.String("op", op), slog.Int("attempt", i+1), slog.Any("error", err))
	}
	return lastErr
}

// parsedChart is a single chart result with helpers to project domain types
type parsedChart struct {
	res *chartResponse
}

func (p parsedChart) quote() *domain.Quote {
	meta := p.res.Chart.Result[0].Meta

	prevClose := meta.PreviousClose
	if prevClose == 0 {
		prevClose = meta.ChartPreviousClose
	}

	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}

	exchange := meta.FullExchangeName
	if exchange == "" {
		exchange = meta.ExchangeName
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return &domain.Quote{
		Symbol:        meta.Symbol,
		Name:          name,
		Currency:      currency,
		Exchange:      exchange,
		Price:         decimal.NewFromFloat(meta.RegularMarketPrice),
		PreviousClose: decimal.NewFromFloat(prevClose),
	}
}

func (p parsedChart) history() domain.History {
	result := p.res.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	closes := result.Indicators.Quote[0].Close
	hist := make(domain.History, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		hist = append(hist, domain.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}
	return hist
}

func (c *Client) fetchChart(ctx context.Context, symbol, rng string) (parsedChart, error) {
	reqURL := fmt.Sprintf("%s/%s?range=%s&interval=1d", c.chartURL, url.PathEscape(symbol), rng)

	body, status, err := c.doGet(ctx, reqURL)
	if err != nil {
		return parsedChart{}, domain.NewNetworkError("chart", err)
	}

	switch {
	case status == http.StatusNotFound:
		return parsedChart{}, domain.ErrSymbolNotFound
	case status >= 500:
		return parsedChart{}, domain.NewNetworkError("chart", fmt.Errorf("unexpected status code: %d", status))
	case status != http.StatusOK:
		return parsedChart{}, domain.NewFatalNetworkError("chart", fmt.Errorf("unexpected status code: %d", status))
	}

	var res chartResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return parsedChart{}, domain.NewFatalNetworkError("chart", err)
	}

	if res.Chart.Error != nil {
		if res.Chart.Error.Code == "Not Found" {
			return parsedChart{}, domain.ErrSymbolNotFound
		}
		return parsedChart{}, domain.NewFatalNetworkError("chart",
			fmt.Errorf("provider error: code=%s msg=%s", res.Chart.Error.Code, res.Chart.Error.Description))
	}
	if len(res.Chart.Result) == 0 {
		return parsedChart{}, domain.ErrSymbolNotFound
	}

	return parsedChart{res: &res}, nil
}

func (c *Client) doSearch(ctx context.Context, query string) ([]domain.SearchResult, error) {
	reqURL := fmt.Sprintf("%s?q=%s", c.searchURL, url.QueryEscape(query))

	body, status, err := c.doGet(ctx, reqURL)
	if err != nil {
		return nil, domain.NewNetworkError("search", err)
	}

	switch {
	case status >= 500:
		return nil, domain.NewNetworkError("search", fmt.Errorf("unexpected status code: %d", status))
	case status != http.StatusOK:
		return nil, domain.NewFatalNetworkError("search", fmt.Errorf("unexpected status code: %d", status))
	}

	var res searchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewFatalNetworkError("search", err)
	}

	results := make([]domain.SearchResult, 0, len(res.Quotes))
	for _, q := range res.Quotes {
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		results = append(results, domain.SearchResult{Symbol: q.Symbol, Name: name})
	}
	return results, nil
}

func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}

	// Browser-like User-Agent to avoid bot detection
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}
