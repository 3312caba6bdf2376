package domain

import (
	"context"
)

// QuoteProvider defines the interface for market data sources
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	History(ctx context.Context, symbol string, days int) (History, error)
}

// SymbolSearcher defines the interface for ticker symbol lookup
type SymbolSearcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Notifier delivers alert notifications to a chat channel
type Notifier interface {
	NotifyAlert(alert *Alert, quote *Quote) error
}

// AlertStore defines how alerts are persisted across restarts
type AlertStore interface {
	SaveAlert(alert *Alert) error
	GetAlert(id uint) (*Alert, error)
	ListActiveAlerts() ([]Alert, error)
	DeleteAlert(id uint) error
}
