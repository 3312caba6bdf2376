package bot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stockbot/internal/domain"
	"stockbot/internal/event"
	"stockbot/internal/infra/storage"

	"github.com/shopspring/decimal"
)

type fakequoteProvider struct {
	quote *domain.Quote
	err   error
}

func (f *fakequoteProvider) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return f.quote, f.err
}

func (f *fakequoteProvider) History(ctx context.Context, symbol string, days int) (domain.History, error) {
	return nil, domain.ErrNoData
}

func testStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.NewStorageAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	return s
}

func TestAlertManager_RegisterAlert(t *testing.T) {
	provider := &fakequoteProvider{quote: &domain.Quote{
		Symbol:   "AAPL",
		Name:     "Apple Inc.",
		Currency: "USD",
		Price:    decimal.NewFromInt(230),
	}}
	store := testStorage(t)
	inbox := make(chan event.Event, 4)
	m := NewAlertManager(provider, store, inbox)

	alert, quote, err := m.RegisterAlert(context.Background(), "AAPL", decimal.NewFromInt(250), "chan-1", true)
	if err != nil {
		t.Fatalf("RegisterAlert failed: %v", err)
	}

	if alert.Direction != "UP" {
		t.Errorf("Expected UP direction, got %s", alert.Direction)
	}
	if !alert.IsPersistent {
		t.Error("Expected persistent alert")
	}
	if quote.Symbol != "AAPL" {
		t.Errorf("Expected quote for AAPL, got %s", quote.Symbol)
	}

	// Persisted
	stored, err := store.GetAlert(alert.ID)
	if err != nil || stored == nil {
		t.Fatalf("Expected stored alert, got %v, %v", stored, err)
	}

	// Symbol joins the watch poll
	info, err := store.GetSymbol("AAPL")
	if err != nil || info == nil {
		t.Fatalf("Expected symbol info, got %v, %v", info, err)
	}
	if !info.IsWatched {
		t.Error("Expected alerted symbol to be watched")
	}

	// Engine notified
	select {
	case ev := <-inbox:
		added, ok := ev.(*event.AlertAddedEvent)
		if !ok {
			t.Fatalf("Expected alert added event, got %T", ev)
		}
		if added.AlertID != alert.ID {
			t.Errorf("Expected alert ID %d, got %d", alert.ID, added.AlertID)
		}
	default:
		t.Fatal("Expected an event on the engine inbox")
	}
}

func TestAlertManager_PreservesSymbolMetadata(t *testing.T) {
	provider := &fakequoteProvider{quote: &domain.Quote{
		Symbol: "AAPL",
		Price:  decimal.NewFromInt(230),
	}}
	store := testStorage(t)
	if err := store.UpsertSymbol(&domain.SymbolInfo{
		Symbol:   "AAPL",
		LogoPath: "/tmp/aapl.png",
	}); err != nil {
		t.Fatal(err)
	}

	m := NewAlertManager(provider, store, make(chan event.Event, 4))
	if _, _, err := m.RegisterAlert(context.Background(), "AAPL", decimal.NewFromInt(250), "chan-1", false); err != nil {
		t.Fatalf("RegisterAlert failed: %v", err)
	}

	info, _ := store.GetSymbol("AAPL")
	if info.LogoPath != "/tmp/aapl.png" {
		t.Errorf("Expected logo path preserved, got %q", info.LogoPath)
	}
}

func TestAlertManager_UnknownSymbol(t *testing.T) {
	provider := &fakequoteProvider{err: domain.ErrSymbolNotFound}
	m := NewAlertManager(provider, testStorage(t), make(chan event.Event, 4))

	_, _, err := m.RegisterAlert(context.Background(), "NOPE", decimal.NewFromInt(250), "chan-1", false)
	if !errors.Is(err, domain.ErrSymbolNotFound) {
		t.Fatalf("Expected ErrSymbolNotFound, got %v", err)
	}
}
