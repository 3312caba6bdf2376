package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"stockbot/internal/domain"
	"stockbot/internal/infra"
	"stockbot/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Storage    *storage.Storage
	Downloader *infra.LogoDownloader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("Bootstrapping StockBot...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("Database initialized")

	// 4. Initialize Logo Downloader
	downloader, err := infra.NewLogoDownloader(cfg.API.Logo.URLTemplate)
	if err != nil {
		return err
	}
	b.Downloader = downloader
	slog.Info("Logo downloader ready")

	return nil
}

// SyncAssets refreshes logos for watched symbols in the background
func (b *Bootstrap) SyncAssets(ctx context.Context) {
	symbols, err := b.Storage.GetWatchedSymbols()
	if err != nil {
		slog.Error("Failed to list watched symbols", slog.Any("error", err))
		return
	}
	if len(symbols) == 0 {
		return
	}

	slog.Info("Starting asset synchronization...", slog.Int("symbols", len(symbols)))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 5) // Limit concurrent downloads

	for i := range symbols {
		wg.Add(1)
		go func(info domain.SymbolInfo) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}: // Acquire
			}
			defer func() { <-semaphore }() // Release

			path, err := b.Downloader.DownloadLogo(info.Symbol)
			if err != nil {
				slog.Warn("Failed to download logo", slog.String("symbol", info.Symbol), slog.Any("error", err))
				return
			}

			if path != info.LogoPath {
				info.LogoPath = path
				info.LastSyncedAt = time.Now()
				info.UpdatedAt = time.Now()
				if err := b.Storage.UpsertSymbol(&info); err != nil {
					slog.Error("Failed to upsert symbol", slog.String("symbol", info.Symbol), slog.Any("error", err))
				}
			}
		}(symbols[i])
	}

	wg.Wait()
	slog.Info("Asset synchronization completed")
}
