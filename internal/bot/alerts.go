package bot

import (
	"context"
	"fmt"
	"time"

	"stockbot/internal/domain"
	"stockbot/internal/event"
	"stockbot/internal/infra/storage"

	"github.com/shopspring/decimal"
)

// AlertManager implements command.AlertRegistrar: it validates the symbol,
// persists the alert, marks the symbol watched, and hands the alert to the
// running watch engine.
type AlertManager struct {
	provider domain.QuoteProvider
	store    *storage.Storage
	inbox    chan<- event.Event
}

// NewAlertManager creates a new AlertManager
func NewAlertManager(provider domain.QuoteProvider, store *storage.Storage, inbox chan<- event.Event) *AlertManager {
	return &AlertManager{
		provider: provider,
		store:    store,
		inbox:    inbox,
	}
}

// RegisterAlert creates an alert with the direction derived from the current
// price. Unknown symbols propagate domain.ErrSymbolNotFound.
func (m *AlertManager) RegisterAlert(ctx context.Context, symbol string, target decimal.Decimal, channelID string, persistent bool) (*domain.Alert, *domain.Quote, error) {
	quote, err := m.provider.Quote(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}

	alert := domain.NewAlert(quote.Symbol, target, quote.Price, channelID, persistent)
	if err := m.store.SaveAlert(alert); err != nil {
		return nil, nil, fmt.Errorf("failed to persist alert: %w", err)
	}

	// Alerted symbols join the watch poll
	info := &domain.SymbolInfo{
		Symbol:    quote.Symbol,
		Name:      quote.Name,
		IsWatched: true,
		UpdatedAt: time.Now(),
	}
	if existing, _ := m.store.GetSymbol(quote.Symbol); existing != nil {
		info.LogoPath = existing.LogoPath
		info.LastSyncedAt = existing.LastSyncedAt
		info.CreatedAt = existing.CreatedAt
	}
	if err := m.store.UpsertSymbol(info); err != nil {
		return nil, nil, fmt.Errorf("failed to update symbol: %w", err)
	}

	select {
	case m.inbox <- &event.AlertAddedEvent{AlertID: alert.ID}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	return alert, quote, nil
}
