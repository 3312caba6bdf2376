package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stockbot/internal/app"
	"stockbot/internal/bot"
	"stockbot/internal/bot/command"
	"stockbot/internal/chart"
	"stockbot/internal/infra/yahoo"
	"stockbot/internal/service"
	"stockbot/internal/watch"

	"github.com/joho/godotenv"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	// Local development keeps the token in .env
	_ = godotenv.Load()

	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(defaultConfigPath); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Background Asset Sync
	go bootstrap.SyncAssets(ctx)

	cfg := bootstrap.Config

	// 4. Market Data + Reports
	provider := yahoo.NewClient(cfg)
	renderer := chart.NewRenderer(cfg.Report.SMAPeriod)
	svc := service.NewStockService(provider, provider, renderer, cfg.Report.ReturnPeriodMonths, cfg.Report.HistoryDays)

	// 5. Discord Session + Watch Engine
	handler := command.NewHandler()
	b, err := bot.NewBot(cfg, svc, handler, bootstrap.Downloader)
	if err != nil {
		slog.Error("Failed to create bot", slog.Any("error", err))
		os.Exit(1)
	}

	engine := watch.NewEngine(1024, bootstrap.Storage, b)
	if err := engine.LoadAlerts(); err != nil {
		slog.Error("Failed to restore alerts", slog.Any("error", err))
		os.Exit(1)
	}
	go engine.Run(ctx)
	slog.InfoContext(ctx, "Watch engine started")

	registrar := bot.NewAlertManager(provider, bootstrap.Storage, engine.Inbox())

	// Register specialized commands in priority order (more specific first)
	commands := []command.Command{
		command.NewMinimalTickerCommand(svc),
		command.NewTickerWithPeriodCommand(svc, b, cfg.Report.DefaultChartMonths),
		command.NewAlertCommand(registrar),
		command.NewTickerCommand(svc, b, cfg.Report.DefaultChartMonths),
	}
	for _, cmd := range commands {
		if err := handler.Register(cmd); err != nil {
			slog.Error("Failed to register command", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// 6. Watch Poller (watched symbols + alerted symbols)
	source := func() []string {
		seen := make(map[string]bool)
		var symbols []string

		if watched, err := bootstrap.Storage.GetWatchedSymbols(); err == nil {
			for _, info := range watched {
				if !seen[info.Symbol] {
					seen[info.Symbol] = true
					symbols = append(symbols, info.Symbol)
				}
			}
		}
		for _, sym := range engine.AlertSymbols() {
			if !seen[sym] {
				seen[sym] = true
				symbols = append(symbols, sym)
			}
		}
		return symbols
	}

	poller := watch.NewPoller(provider, source, engine.Inbox(), cfg.Watch.PollIntervalSec)
	if err := poller.Start(ctx); err != nil {
		slog.Error("Failed to start watch poller", slog.Any("error", err))
	}
	defer poller.Stop()

	// 7. Connect
	if err := b.Open(); err != nil {
		slog.Error("Failed to connect to Discord", slog.Any("error", err))
		os.Exit(1)
	}
	defer b.Close()

	slog.InfoContext(ctx, "StockBot fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "Shutting down gracefully...")
}
