package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stockbot/internal/domain"

	"github.com/shopspring/decimal"
)

// ChartRenderer draws a PNG chart for a close-price series
type ChartRenderer interface {
	Render(symbol, currency string, months int, hist domain.History) ([]byte, error)
}

// Report is everything needed to present a symbol: quote, period returns,
// and an optional chart. When the symbol could not be resolved, Quote is nil
// and Suggestions carries search hits for the failed lookup.
type Report struct {
	Quote       *Quote
	Returns     map[int]*decimal.Decimal // months -> percentage return
	ChartMonths int
	ChartPNG    []byte // nil when no chart was rendered
	Suggestions []domain.SearchResult
	FailedInput string // original input when Quote is nil
}

// Quote aliases the domain type so callers only import the service package
type Quote = domain.Quote

// StockService composes the market data provider and the chart renderer
// into presentable reports.
type StockService struct {
	provider      domain.QuoteProvider
	searcher      domain.SymbolSearcher
	renderer      ChartRenderer
	returnPeriods []int // months, e.g. [1, 3, 12]
	historyDays   int
	logger        *slog.Logger
}

// NewStockService creates a new StockService instance
func NewStockService(provider domain.QuoteProvider, searcher domain.SymbolSearcher, renderer ChartRenderer, returnPeriods []int, historyDays int) *StockService {
	return &StockService{
		provider:      provider,
		searcher:      searcher,
		renderer:      renderer,
		returnPeriods: returnPeriods,
		historyDays:   historyDays,
		logger:        slog.Default().With("module", "stock_service"),
	}
}

// ReturnPeriods returns the configured lookback periods in months.
func (s *StockService) ReturnPeriods() []int {
	return s.returnPeriods
}

// FullReport builds a complete report: quote, period returns, and a chart
// covering chartMonths. Missing history degrades to a report without
// returns or chart rather than failing.
func (s *StockService) FullReport(ctx context.Context, symbol string, chartMonths int) (*Report, error) {
	quote, err := s.provider.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Quote:       quote,
		Returns:     make(map[int]*decimal.Decimal, len(s.returnPeriods)),
		ChartMonths: chartMonths,
	}

	days := s.historyDays
	if want := chartMonths * 31; want > days {
		days = want
	}

	hist, err := s.provider.History(ctx, symbol, days)
	if err != nil {
		// Quote alone is still a usable report
		s.logger.Warn("History fetch failed", slog.String("symbol", symbol), slog.Any("error", err))
		return report, nil
	}

	now := time.Now()
	for _, months := range s.returnPeriods {
		report.Returns[months] = hist.ReturnOverPct(monthsAgo(now, months))
	}

	chartHist := hist.Since(monthsAgo(now, chartMonths))
	png, err := s.renderer.Render(quote.Symbol, quote.Currency, chartMonths, chartHist)
	if err != nil {
		// If the chart fails, just skip it
		s.logger.Warn("Chart render failed", slog.String("symbol", symbol), slog.Any("error", err))
		return report, nil
	}
	report.ChartPNG = png

	return report, nil
}

// BriefReport builds a minimal report with just the quote.
func (s *StockService) BriefReport(ctx context.Context, symbol string) (*Report, error) {
	quote, err := s.provider.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &Report{Quote: quote}, nil
}

// FullReportOrSearch builds a full report; when the symbol resolves to
// nothing it searches for it and returns a not-found report carrying the
// suggestions instead.
func (s *StockService) FullReportOrSearch(ctx context.Context, symbol string, chartMonths int) (*Report, error) {
	report, err := s.FullReport(ctx, symbol, chartMonths)
	if err == nil {
		return report, nil
	}
	return s.searchFallback(ctx, symbol, err)
}

// BriefReportOrSearch is the minimal variant of FullReportOrSearch.
func (s *StockService) BriefReportOrSearch(ctx context.Context, symbol string) (*Report, error) {
	report, err := s.BriefReport(ctx, symbol)
	if err == nil {
		return report, nil
	}
	return s.searchFallback(ctx, symbol, err)
}

// Search looks up tickers matching a free-form query.
func (s *StockService) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return s.searcher.Search(ctx, query)
}

func (s *StockService) searchFallback(ctx context.Context, symbol string, cause error) (*Report, error) {
	if !errors.Is(cause, domain.ErrSymbolNotFound) && !errors.Is(cause, domain.ErrNoData) {
		return nil, cause
	}

	suggestions, err := s.searcher.Search(ctx, symbol)
	if err != nil {
		s.logger.Warn("Fallback search failed", slog.String("symbol", symbol), slog.Any("error", err))
		suggestions = nil
	}

	return &Report{
		FailedInput: symbol,
		Suggestions: suggestions,
	}, nil
}

// monthsAgo approximates a calendar lookback as months * 30 days, matching
// how period returns are anchored to the closest prior trading day.
func monthsAgo(now time.Time, months int) time.Time {
	return now.AddDate(0, 0, -months*30)
}
