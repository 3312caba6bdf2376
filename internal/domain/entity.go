package domain

import (
	"time"
)

// SymbolInfo represents metadata for a tracked ticker symbol
type SymbolInfo struct {
	Symbol       string    `gorm:"primaryKey" json:"symbol"`
	Name         string    `json:"name"`
	LogoPath     string    `json:"logo_path"`
	IsWatched    bool      `json:"is_watched" gorm:"index"` // Included in the background watch poll
	LastSyncedAt time.Time `json:"last_synced_at"`          // Last logo sync time
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AppConfig represents user-specific configuration (Key-Value)
type AppConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
