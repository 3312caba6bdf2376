package event

import (
	"github.com/shopspring/decimal"
)

// Type identifies the kind of event flowing through the watch engine
type Type string

const (
	TypeQuoteUpdate Type = "QUOTE_UPDATE"
	TypeAlertAdded  Type = "ALERT_ADDED"
)

// Event is the common interface for everything sent to the engine inbox
type Event interface {
	GetType() Type
}

// QuoteUpdateEvent carries a fresh quote for a watched symbol
type QuoteUpdateEvent struct {
	Symbol        string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
	Currency      string
	Name          string
	UnixMs        int64
}

func (e *QuoteUpdateEvent) GetType() Type { return TypeQuoteUpdate }

// AlertAddedEvent registers a new alert with the running engine
type AlertAddedEvent struct {
	AlertID uint
}

func (e *AlertAddedEvent) GetType() Type { return TypeAlertAdded }
