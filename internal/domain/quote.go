package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time snapshot of a tradable symbol.
type Quote struct {
	Symbol        string
	Name          string
	Currency      string
	Exchange      string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
}

// DisplayName returns the long name when known, falling back to the symbol.
func (q *Quote) DisplayName() string {
	if q.Name != "" {
		return q.Name
	}
	return q.Symbol
}

// DailyChangePct returns the percent move from the previous close.
// Returns nil when no previous close is available.
func (q *Quote) DailyChangePct() *decimal.Decimal {
	if q.PreviousClose.IsZero() {
		return nil
	}
	pct := q.Price.Sub(q.PreviousClose).
		Div(q.PreviousClose).
		Mul(decimal.NewFromInt(100))
	return &pct
}

// ChangeDirection classifies the daily move as positive, negative or neutral.
func (q *Quote) ChangeDirection() string {
	if q.PreviousClose.IsZero() {
		return "neutral"
	}
	switch q.Price.Cmp(q.PreviousClose) {
	case 1:
		return "positive"
	case -1:
		return "negative"
	default:
		return "neutral"
	}
}

// Candle is a single daily close in a price series.
type Candle struct {
	Time  time.Time
	Close decimal.Decimal
}

// History is a daily close series ordered oldest first.
type History []Candle

// LastClose returns the most recent close, or nil for an empty series.
func (h History) LastClose() *decimal.Decimal {
	if len(h) == 0 {
		return nil
	}
	return &h[len(h)-1].Close
}

// ReturnOverPct computes the percent return from the last close at or
// before cutoff to the most recent close. Returns nil when the series
// does not reach back to the cutoff or the base close is zero.
func (h History) ReturnOverPct(cutoff time.Time) *decimal.Decimal {
	last := h.LastClose()
	if last == nil {
		return nil
	}

	var base *decimal.Decimal
	for i := range h {
		if h[i].Time.After(cutoff) {
			break
		}
		base = &h[i].Close
	}
	if base == nil || base.IsZero() {
		return nil
	}

	pct := last.Sub(*base).Div(*base).Mul(decimal.NewFromInt(100))
	return &pct
}

// Since returns the tail of the series starting at the first candle
// not before cutoff. Returns nil when no candle qualifies.
func (h History) Since(cutoff time.Time) History {
	for i := range h {
		if !h[i].Time.Before(cutoff) {
			return h[i:]
		}
	}
	return nil
}

// SearchResult is a single symbol lookup match.
type SearchResult struct {
	Symbol string
	Name   string
}
