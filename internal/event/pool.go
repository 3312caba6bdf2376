package event

import (
	"sync"

	"github.com/shopspring/decimal"
)

// quoteUpdatePool provides sync.Pool for quote event allocation.
// The watch poller emits one event per symbol per tick, so pooling keeps
// steady-state allocation flat.
//
// Usage:
//
//	ev := AcquireQuoteUpdateEvent()
//	ev.Symbol = "AAPL"
//	// ... send to inbox, engine releases after processing ...
var quoteUpdatePool = sync.Pool{
	New: func() interface{} {
		return &QuoteUpdateEvent{}
	},
}

// AcquireQuoteUpdateEvent gets a QuoteUpdateEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireQuoteUpdateEvent() *QuoteUpdateEvent {
	return quoteUpdatePool.Get().(*QuoteUpdateEvent)
}

// ReleaseQuoteUpdateEvent returns a QuoteUpdateEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseQuoteUpdateEvent(ev *QuoteUpdateEvent) {
	if ev == nil {
		return
	}
	ev.Symbol = ""
	ev.Price = decimal.Decimal{}
	ev.PreviousClose = decimal.Decimal{}
	ev.Currency = ""
	ev.Name = ""
	ev.UnixMs = 0

	quoteUpdatePool.Put(ev)
}
