package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stockbot/internal/domain"
	"stockbot/internal/event"
	"stockbot/internal/infra"
)

// SymbolSource supplies the set of symbols the poller should refresh
type SymbolSource func() []string

// Poller periodically fetches quotes for watched symbols and feeds the
// engine inbox.
type Poller struct {
	provider     domain.QuoteProvider
	source       SymbolSource
	inbox        chan<- event.Event
	pollInterval time.Duration
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	logger       *slog.Logger
}

// NewPoller creates a new watch poller
func NewPoller(provider domain.QuoteProvider, source SymbolSource, inbox chan<- event.Event, pollIntervalSec int) *Poller {
	interval := 60 * time.Second
	if pollIntervalSec > 0 {
		interval = time.Duration(pollIntervalSec) * time.Second
	}

	return &Poller{
		provider:     provider,
		source:       source,
		inbox:        inbox,
		pollInterval: interval,
		logger:       slog.Default().With("module", "watch_poller"),
	}
}

// Start begins polling quote updates
func (p *Poller) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)

	// Poll immediately on start
	p.poll(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Watch polling panic recovered", slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Watch polling stopped")
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()

	return nil
}

func (p *Poller) poll(ctx context.Context) {
	symbols := p.source()
	infra.GlobalMetrics.SetWatchedSymbols(int32(len(symbols)))

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return
		default:
		}

		quote, err := p.provider.Quote(ctx, symbol)
		if err != nil {
			p.logger.Warn("Watch quote fetch failed",
				slog.String("symbol", symbol),
				slog.Any("error", err),
			)
			continue
		}

		ev := event.AcquireQuoteUpdateEvent()
		ev.Symbol = quote.Symbol
		ev.Name = quote.Name
		ev.Currency = quote.Currency
		ev.Price = quote.Price
		ev.PreviousClose = quote.PreviousClose
		ev.UnixMs = nowUnixMs()

		select {
		case p.inbox <- ev:
		case <-ctx.Done():
			event.ReleaseQuoteUpdateEvent(ev)
			return
		}
	}
}

// Stop stops the polling
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}
}
