package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stockbot/internal/domain"
	"stockbot/internal/event"
	"stockbot/internal/infra"

	"github.com/shopspring/decimal"
)

// SymbolState holds the latest known quote for one watched symbol
type SymbolState struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	LastUpdateMs  int64           `json:"last_update"`
}

// Engine is the single-threaded alert evaluator. Quote updates arrive on the
// inbox channel, are applied to the per-symbol state map, and active alerts
// are checked inline. Run MUST be executed in a single goroutine.
type Engine struct {
	inbox    chan event.Event
	states   map[string]*SymbolState
	alerts   map[uint]*domain.Alert
	fired    map[uint]bool // persistent alerts re-arm when the condition clears
	store    domain.AlertStore
	notifier domain.Notifier
	logger   *slog.Logger

	mu sync.RWMutex // Used only for external reads
}

// NewEngine creates a new engine instance.
func NewEngine(inboxSize int, store domain.AlertStore, notifier domain.Notifier) *Engine {
	return &Engine{
		inbox:    make(chan event.Event, inboxSize),
		states:   make(map[string]*SymbolState),
		alerts:   make(map[uint]*domain.Alert),
		fired:    make(map[uint]bool),
		store:    store,
		notifier: notifier,
		logger:   slog.Default().With("module", "watch_engine"),
	}
}

// Inbox returns the event channel. The poller and the bot send events here.
func (e *Engine) Inbox() chan<- event.Event {
	return e.inbox
}

// LoadAlerts restores active alerts from storage. Call before Run.
func (e *Engine) LoadAlerts() error {
	alerts, err := e.store.ListActiveAlerts()
	if err != nil {
		return err
	}

	e.mu.Lock()
	for i := range alerts {
		a := alerts[i]
		e.alerts[a.ID] = &a
	}
	count := len(e.alerts)
	e.mu.Unlock()

	infra.GlobalMetrics.SetActiveAlerts(int32(count))
	e.logger.Info("Alerts restored", slog.Int("count", count))
	return nil
}

// AlertSymbols returns the distinct symbols with at least one active alert.
func (e *Engine) AlertSymbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]bool)
	symbols := make([]string, 0, len(e.alerts))
	for _, a := range e.alerts {
		if !a.Active || seen[a.Symbol] {
			continue
		}
		seen[a.Symbol] = true
		symbols = append(symbols, a.Symbol)
	}
	return symbols
}

// GetState returns a snapshot of a symbol's state (external read).
func (e *Engine) GetState(symbol string) (SymbolState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.states[symbol]
	if !ok {
		return SymbolState{}, false
	}
	return *state, true // Return copy
}

// Run starts the main event loop.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("Watch engine started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Watch engine stopping...")
			return
		case ev := <-e.inbox:
			e.processEvent(ev)
		}
	}
}

func (e *Engine) processEvent(ev event.Event) {
	switch typed := ev.(type) {
	case *event.QuoteUpdateEvent:
		e.handleQuoteUpdate(typed)
		event.ReleaseQuoteUpdateEvent(typed)
	case *event.AlertAddedEvent:
		e.handleAlertAdded(typed)
	default:
		e.logger.Warn("Unknown event type", slog.Any("type", ev.GetType()))
	}
}

func (e *Engine) handleQuoteUpdate(ev *event.QuoteUpdateEvent) {
	e.mu.Lock()
	state, ok := e.states[ev.Symbol]
	if !ok {
		state = &SymbolState{Symbol: ev.Symbol}
		e.states[ev.Symbol] = state
	}
	state.Name = ev.Name
	state.Currency = ev.Currency
	state.Price = ev.Price
	state.PreviousClose = ev.PreviousClose
	state.LastUpdateMs = ev.UnixMs
	e.mu.Unlock()

	e.checkAlerts(ev.Symbol, ev.Price)
}

func (e *Engine) checkAlerts(symbol string, price decimal.Decimal) {
	for id, alert := range e.alerts {
		if alert.Symbol != symbol {
			continue
		}

		if !alert.CheckCondition(price) {
			// Condition cleared: re-arm a previously fired persistent alert
			if e.fired[id] {
				e.fired[id] = false
			}
			continue
		}

		if e.fired[id] {
			continue // Already notified for this crossing
		}

		e.fireAlert(alert, price)
	}
}

func (e *Engine) fireAlert(alert *domain.Alert, price decimal.Decimal) {
	e.mu.RLock()
	state := e.states[alert.Symbol]
	quote := &domain.Quote{
		Symbol:   alert.Symbol,
		Price:    price,
		Currency: "USD",
	}
	if state != nil {
		quote.Name = state.Name
		quote.Currency = state.Currency
		quote.PreviousClose = state.PreviousClose
	}
	e.mu.RUnlock()

	if err := e.notifier.NotifyAlert(alert, quote); err != nil {
		e.logger.Error("Alert notification failed",
			slog.String("symbol", alert.Symbol),
			slog.Any("error", err),
		)
		return // Leave the alert armed so the next tick retries
	}

	infra.GlobalMetrics.RecordAlertFired()
	e.logger.Info("Alert fired",
		slog.String("symbol", alert.Symbol),
		slog.String("target", alert.TargetPrice.String()),
		slog.String("price", price.String()),
	)

	if alert.IsPersistent {
		e.fired[alert.ID] = true
		return
	}

	// One-shot alerts are removed entirely. AlertSymbols reads Active under
	// RLock, so the write has to happen inside the lock too.
	e.mu.Lock()
	alert.Active = false
	delete(e.alerts, alert.ID)
	delete(e.fired, alert.ID)
	count := len(e.alerts)
	e.mu.Unlock()
	infra.GlobalMetrics.SetActiveAlerts(int32(count))

	if err := e.store.DeleteAlert(alert.ID); err != nil {
		e.logger.Error("Failed to delete fired alert", slog.Any("error", err))
	}
}

func (e *Engine) handleAlertAdded(ev *event.AlertAddedEvent) {
	alert, err := e.store.GetAlert(ev.AlertID)
	if err != nil || alert == nil {
		e.logger.Error("Failed to load added alert", slog.Any("id", ev.AlertID), slog.Any("error", err))
		return
	}

	e.mu.Lock()
	e.alerts[alert.ID] = alert
	count := len(e.alerts)
	e.mu.Unlock()

	infra.GlobalMetrics.SetActiveAlerts(int32(count))
	e.logger.Info("Alert registered",
		slog.String("symbol", alert.Symbol),
		slog.String("direction", alert.Direction),
		slog.String("target", alert.TargetPrice.String()),
	)
}

// nowUnixMs is the timestamp source for quote events
func nowUnixMs() int64 {
	return time.Now().UnixMilli()
}
