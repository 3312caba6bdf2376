package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stockbot/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage defines the interface for data persistence
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the default location
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt creates a SQLite storage instance backed by the given file
func NewStorageAt(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.SymbolInfo{}, &domain.AppConfig{}, &domain.Alert{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path
func getDBPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "StockBot", "data", "stockbot.db"), nil
}

// ======================================================================================
// Symbol Operations
// ======================================================================================

// UpsertSymbol creates or updates symbol metadata
func (s *Storage) UpsertSymbol(info *domain.SymbolInfo) error {
	return s.db.Save(info).Error
}

// GetSymbol retrieves symbol metadata
func (s *Storage) GetSymbol(symbol string) (*domain.SymbolInfo, error) {
	var info domain.SymbolInfo
	err := s.db.First(&info, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &info, err
}

// GetAllSymbols retrieves all symbols
func (s *Storage) GetAllSymbols() ([]domain.SymbolInfo, error) {
	var infos []domain.SymbolInfo
	err := s.db.Find(&infos).Error
	return infos, err
}

// GetWatchedSymbols retrieves the symbols included in the watch poll
func (s *Storage) GetWatchedSymbols() ([]domain.SymbolInfo, error) {
	var infos []domain.SymbolInfo
	err := s.db.Where("is_watched = ?", true).Find(&infos).Error
	return infos, err
}

// ToggleWatched toggles the watched status of a symbol
func (s *Storage) ToggleWatched(symbol string) (bool, error) {
	var info domain.SymbolInfo
	if err := s.db.First(&info, "symbol = ?", symbol).Error; err != nil {
		return false, err
	}

	info.IsWatched = !info.IsWatched
	err := s.db.Save(&info).Error
	return info.IsWatched, err
}

// DeleteSymbol deletes a symbol from the database
func (s *Storage) DeleteSymbol(symbol string) error {
	return s.db.Where("symbol = ?", symbol).Delete(&domain.SymbolInfo{}).Error
}

// ======================================================================================
// Alert Operations
// ======================================================================================

// SaveAlert creates or updates a price alert
func (s *Storage) SaveAlert(alert *domain.Alert) error {
	return s.db.Save(alert).Error
}

// ListActiveAlerts retrieves all active alerts
func (s *Storage) ListActiveAlerts() ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := s.db.Where("active = ?", true).Find(&alerts).Error
	return alerts, err
}

// GetAlert retrieves one alert by ID
func (s *Storage) GetAlert(id uint) (*domain.Alert, error) {
	var alert domain.Alert
	err := s.db.First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &alert, err
}

// DeleteAlert deletes an alert
func (s *Storage) DeleteAlert(id uint) error {
	return s.db.Delete(&domain.Alert{}, id).Error
}

// ======================================================================================
// Config Operations
// ======================================================================================

// SaveConfig saves a user configuration
func (s *Storage) SaveConfig(key, value string) error {
	config := domain.AppConfig{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&config).Error
}

// LoadConfigMap loads all user configurations as a map
func (s *Storage) LoadConfigMap() (map[string]string, error) {
	var configs []domain.AppConfig
	if err := s.db.Find(&configs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, cfg := range configs {
		result[cfg.Key] = cfg.Value
	}
	return result, nil
}
