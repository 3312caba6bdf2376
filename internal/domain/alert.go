package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert represents a persisted price alert
type Alert struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Symbol       string          `gorm:"index" json:"symbol"`
	TargetPrice  decimal.Decimal `json:"target"`
	Direction    string          `json:"direction"`  // "UP" or "DOWN"
	ChannelID    string          `json:"channel_id"` // Discord channel to notify
	IsPersistent bool            `json:"is_persistent"`
	Active       bool            `gorm:"index" json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewAlert creates a new price alert.
// Direction is automatically determined based on currentPrice:
// - UP: targetPrice > currentPrice (waiting for price to rise)
// - DOWN: targetPrice < currentPrice (waiting for price to fall)
func NewAlert(symbol string, targetPrice, currentPrice decimal.Decimal, channelID string, isPersistent bool) *Alert {
	direction := "UP"
	if targetPrice.LessThan(currentPrice) {
		direction = "DOWN"
	}
	return &Alert{
		Symbol:       symbol,
		TargetPrice:  targetPrice,
		Direction:    direction,
		ChannelID:    channelID,
		IsPersistent: isPersistent,
		Active:       true,
	}
}

// CheckCondition checks if the alert condition is met.
// Returns true when:
// - Direction is UP and currentPrice >= targetPrice
// - Direction is DOWN and currentPrice <= targetPrice
func (a *Alert) CheckCondition(currentPrice decimal.Decimal) bool {
	if !a.Active {
		return false
	}
	switch a.Direction {
	case "UP":
		return currentPrice.GreaterThanOrEqual(a.TargetPrice)
	case "DOWN":
		return currentPrice.LessThanOrEqual(a.TargetPrice)
	default:
		return false
	}
}
