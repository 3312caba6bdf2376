package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stockbot/internal/bot/view"
	"stockbot/internal/domain"
	"stockbot/internal/service"

	"github.com/shopspring/decimal"
)

// fakeResponder records every reply sent during a test
type fakeResponder struct {
	typingCalls int
	replies     []*Reply
	channels    []string
	sendErr     error
}

func (f *fakeResponder) Typing(channelID string) { f.typingCalls++ }

func (f *fakeResponder) Send(channelID string, reply *Reply) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.channels = append(f.channels, channelID)
	f.replies = append(f.replies, reply)
	return nil
}

// fakeReporter returns canned reports keyed by symbol
type fakeReporter struct {
	fullCalls   []string
	fullMonths  []int
	briefCalls  []string
	searches    []string
	notFound    map[string]bool
	failSymbols map[string]bool
	err         error
}

func (f *fakeReporter) report(symbol string) *service.Report {
	if f.notFound[symbol] {
		return &service.Report{FailedInput: symbol}
	}
	return &service.Report{
		Quote: &domain.Quote{
			Symbol:        symbol,
			Name:          symbol + " Corp",
			Currency:      "USD",
			Price:         decimal.NewFromInt(100),
			PreviousClose: decimal.NewFromInt(99),
		},
	}
}

func (f *fakeReporter) FullReportOrSearch(ctx context.Context, symbol string, chartMonths int) (*service.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.failSymbols[symbol] {
		return nil, errors.New("provider down")
	}
	f.fullCalls = append(f.fullCalls, symbol)
	f.fullMonths = append(f.fullMonths, chartMonths)
	return f.report(symbol), nil
}

func (f *fakeReporter) BriefReportOrSearch(ctx context.Context, symbol string) (*service.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.failSymbols[symbol] {
		return nil, errors.New("provider down")
	}
	f.briefCalls = append(f.briefCalls, symbol)
	return f.report(symbol), nil
}

func (f *fakeReporter) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.searches = append(f.searches, query)
	return []domain.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}}, nil
}

type fakeRegistrar struct {
	symbols    []string
	targets    []decimal.Decimal
	persistent []bool
	err        error
}

func (f *fakeRegistrar) RegisterAlert(ctx context.Context, symbol string, target decimal.Decimal, channelID string, persistent bool) (*domain.Alert, *domain.Quote, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.symbols = append(f.symbols, symbol)
	f.targets = append(f.targets, target)
	f.persistent = append(f.persistent, persistent)

	quote := &domain.Quote{Symbol: symbol, Currency: "USD", Price: decimal.NewFromInt(100)}
	return domain.NewAlert(symbol, target, quote.Price, channelID, persistent), quote, nil
}

func TestHandler_Register(t *testing.T) {
	h := NewHandler()

	if err := h.Register(NewTickerCommand(&fakeReporter{}, nil, 3)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := h.Register(NewTickerCommand(&fakeReporter{}, nil, 3)); err == nil {
		t.Fatal("Expected duplicate registration error")
	}
}

func TestHandler_Execute(t *testing.T) {
	t.Run("runs every matching command once", func(t *testing.T) {
		reporter := &fakeReporter{}
		h := NewHandler()
		if err := h.Register(NewMinimalTickerCommand(reporter)); err != nil {
			t.Fatal(err)
		}
		if err := h.Register(NewTickerCommand(reporter, nil, 3)); err != nil {
			t.Fatal(err)
		}

		r := &fakeResponder{}
		h.Execute(context.Background(), "chan-1", "[[[-TSLA]]] and [[[AAPL]]]", r)

		if r.typingCalls != 1 {
			t.Errorf("Expected a single typing indicator, got %d", r.typingCalls)
		}
		if len(reporter.briefCalls) != 1 || reporter.briefCalls[0] != "TSLA" {
			t.Errorf("Expected brief report for TSLA, got %v", reporter.briefCalls)
		}
		if len(reporter.fullCalls) != 1 || reporter.fullCalls[0] != "AAPL" {
			t.Errorf("Expected full report for AAPL, got %v", reporter.fullCalls)
		}
	})

	t.Run("no match sends nothing", func(t *testing.T) {
		h := NewHandler()
		if err := h.Register(NewTickerCommand(&fakeReporter{}, nil, 3)); err != nil {
			t.Fatal(err)
		}

		r := &fakeResponder{}
		h.Execute(context.Background(), "chan-1", "no brackets here", r)

		if r.typingCalls != 0 || len(r.replies) != 0 {
			t.Error("Expected no activity for a plain message")
		}
	})

	t.Run("command failure does not stop others", func(t *testing.T) {
		failing := &fakeReporter{err: errors.New("provider down")}
		working := &fakeReporter{}
		h := NewHandler()
		if err := h.Register(NewMinimalTickerCommand(failing)); err != nil {
			t.Fatal(err)
		}
		if err := h.Register(NewTickerCommand(working, nil, 3)); err != nil {
			t.Fatal(err)
		}

		r := &fakeResponder{}
		h.Execute(context.Background(), "chan-1", "[[[-TSLA]]] [[[AAPL]]]", r)

		if len(working.fullCalls) != 1 {
			t.Error("Expected second command to run after first failed")
		}
	})
}

func TestMinimalTickerCommand(t *testing.T) {
	reporter := &fakeReporter{}
	cmd := NewMinimalTickerCommand(reporter)

	t.Run("matches", func(t *testing.T) {
		if !cmd.Matches("[[[-AAPL]]]") {
			t.Error("Expected match for minimal pattern")
		}
		if cmd.Matches("[[[AAPL]]]") {
			t.Error("Should not match plain pattern")
		}
		if cmd.Matches("[[[-]]]") {
			t.Error("Should not match dash without symbol")
		}
	})

	t.Run("execute dedupes and uppercases", func(t *testing.T) {
		r := &fakeResponder{}
		err := cmd.Execute(context.Background(), "chan-1", "[[[-aapl]]] [[[-AAPL]]] [[[-msft]]]", r)
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.briefCalls) != 2 {
			t.Fatalf("Expected 2 reports, got %v", reporter.briefCalls)
		}
		if reporter.briefCalls[0] != "AAPL" || reporter.briefCalls[1] != "MSFT" {
			t.Errorf("Unexpected symbols: %v", reporter.briefCalls)
		}
		if len(r.replies) != 2 {
			t.Errorf("Expected 2 replies, got %d", len(r.replies))
		}
		if r.replies[0].Components == nil {
			t.Error("Expected brief reply buttons")
		}
	})

	t.Run("fetch failure replies with an error embed", func(t *testing.T) {
		failing := &fakeReporter{failSymbols: map[string]bool{"AAPL": true}}
		cmd := NewMinimalTickerCommand(failing)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[-AAPL]]] [[[-MSFT]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(r.replies) != 2 {
			t.Fatalf("Expected error reply plus report, got %d replies", len(r.replies))
		}
		if r.replies[0].Embed == nil || r.replies[0].Embed.Color != view.ColorRed {
			t.Error("Expected red error embed for the failed symbol")
		}
		if len(failing.briefCalls) != 1 || failing.briefCalls[0] != "MSFT" {
			t.Errorf("Expected MSFT report after AAPL failure, got %v", failing.briefCalls)
		}
	})
}

func TestTickerWithPeriodCommand(t *testing.T) {
	t.Run("custom period", func(t *testing.T) {
		reporter := &fakeReporter{}
		cmd := NewTickerWithPeriodCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[AAPL,6]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.fullMonths) != 1 || reporter.fullMonths[0] != 6 {
			t.Errorf("Expected 6 month report, got %v", reporter.fullMonths)
		}
	})

	t.Run("invalid period falls back to default", func(t *testing.T) {
		reporter := &fakeReporter{}
		cmd := NewTickerWithPeriodCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[AAPL,soon]]] [[[MSFT,-2]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.fullMonths) != 2 {
			t.Fatalf("Expected 2 reports, got %v", reporter.fullMonths)
		}
		for _, months := range reporter.fullMonths {
			if months != 3 {
				t.Errorf("Expected default period 3, got %d", months)
			}
		}
	})

	t.Run("dedupes by symbol", func(t *testing.T) {
		reporter := &fakeReporter{}
		cmd := NewTickerWithPeriodCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[AAPL,6]]] [[[aapl,12]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.fullCalls) != 1 {
			t.Errorf("Expected 1 report for repeated symbol, got %v", reporter.fullCalls)
		}
	})

	t.Run("fetch failure replies with an error embed", func(t *testing.T) {
		reporter := &fakeReporter{failSymbols: map[string]bool{"AAPL": true}}
		cmd := NewTickerWithPeriodCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[AAPL,6]]] [[[MSFT,6]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(r.replies) != 2 {
			t.Fatalf("Expected error reply plus report, got %d replies", len(r.replies))
		}
		if r.replies[0].Embed == nil || r.replies[0].Embed.Color != view.ColorRed {
			t.Error("Expected red error embed for the failed symbol")
		}
		if len(reporter.fullCalls) != 1 || reporter.fullCalls[0] != "MSFT" {
			t.Errorf("Expected MSFT report after AAPL failure, got %v", reporter.fullCalls)
		}
	})
}

func TestTickerCommand(t *testing.T) {
	t.Run("plain symbol", func(t *testing.T) {
		reporter := &fakeReporter{}
		cmd := NewTickerCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[aapl]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.fullCalls) != 1 || reporter.fullCalls[0] != "AAPL" {
			t.Errorf("Expected report for AAPL, got %v", reporter.fullCalls)
		}
		if reporter.fullMonths[0] != 3 {
			t.Errorf("Expected default period, got %d", reporter.fullMonths[0])
		}
	})

	t.Run("extra tokens are dropped", func(t *testing.T) {
		reporter := &fakeReporter{}
		cmd := NewTickerCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[AAPL please]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.fullCalls) != 1 || reporter.fullCalls[0] != "AAPL" {
			t.Errorf("Expected report for AAPL, got %v", reporter.fullCalls)
		}
	})

	t.Run("query searches", func(t *testing.T) {
		reporter := &fakeReporter{}
		cmd := NewTickerCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[?apple]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(reporter.searches) != 1 || reporter.searches[0] != "apple" {
			t.Errorf("Expected search for apple, got %v", reporter.searches)
		}
		if len(r.replies) != 1 || r.replies[0].Embed == nil {
			t.Fatal("Expected a search embed reply")
		}
	})

	t.Run("not found reply carries suggestions", func(t *testing.T) {
		reporter := &fakeReporter{notFound: map[string]bool{"NOPE": true}}
		cmd := NewTickerCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[NOPE]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(r.replies) != 1 {
			t.Fatalf("Expected 1 reply, got %d", len(r.replies))
		}
		reply := r.replies[0]
		if reply.Components != nil {
			t.Error("Not-found reply should not carry buttons")
		}
		if reply.Embed == nil || !strings.Contains(reply.Embed.Description, "NOPE") {
			t.Error("Expected not-found embed naming the input")
		}
	})

	t.Run("fetch failure replies with an error embed", func(t *testing.T) {
		reporter := &fakeReporter{failSymbols: map[string]bool{"AAPL": true}}
		cmd := NewTickerCommand(reporter, nil, 3)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[AAPL]]] [[[MSFT]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(r.replies) != 2 {
			t.Fatalf("Expected 2 replies, got %d", len(r.replies))
		}
		errReply := r.replies[0]
		if errReply.Embed == nil || errReply.Embed.Color != view.ColorRed {
			t.Error("Expected red error embed for the failed symbol")
		}
		if !strings.Contains(errReply.Embed.Description, "AAPL") {
			t.Errorf("Expected error embed to name the symbol, got %q", errReply.Embed.Description)
		}
		// Remaining symbols still get their reports
		if len(reporter.fullCalls) != 1 || reporter.fullCalls[0] != "MSFT" {
			t.Errorf("Expected MSFT report after AAPL failure, got %v", reporter.fullCalls)
		}
	})
}

func TestAlertCommand(t *testing.T) {
	t.Run("matches only valid alert patterns", func(t *testing.T) {
		cmd := NewAlertCommand(&fakeRegistrar{})

		if !cmd.Matches("[[[AAPL@150]]]") {
			t.Error("Expected match for alert pattern")
		}
		if !cmd.Matches("[[[AAPL@150.50!]]]") {
			t.Error("Expected match for persistent alert pattern")
		}
		if cmd.Matches("[[[AAPL@zero]]]") {
			t.Error("Should not match non-numeric price")
		}
		if cmd.Matches("[[[AAPL@-5]]]") {
			t.Error("Should not match negative price")
		}
		if cmd.Matches("[[[AAPL]]]") {
			t.Error("Should not match plain pattern")
		}
	})

	t.Run("registers alert", func(t *testing.T) {
		registrar := &fakeRegistrar{}
		cmd := NewAlertCommand(registrar)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[aapl@150.50!]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}

		if len(registrar.symbols) != 1 || registrar.symbols[0] != "AAPL" {
			t.Fatalf("Expected AAPL registration, got %v", registrar.symbols)
		}
		if !registrar.targets[0].Equal(decimal.NewFromFloat(150.50)) {
			t.Errorf("Expected target 150.50, got %v", registrar.targets[0])
		}
		if !registrar.persistent[0] {
			t.Error("Expected persistent alert for trailing !")
		}
		if len(r.replies) != 1 || r.replies[0].Embed == nil {
			t.Fatal("Expected acknowledgment embed")
		}
	})

	t.Run("unknown symbol gets not-found reply", func(t *testing.T) {
		registrar := &fakeRegistrar{err: domain.ErrSymbolNotFound}
		cmd := NewAlertCommand(registrar)

		r := &fakeResponder{}
		if err := cmd.Execute(context.Background(), "chan-1", "[[[NOPE@150]]]", r); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if len(r.replies) != 1 {
			t.Fatalf("Expected not-found reply, got %d replies", len(r.replies))
		}
	})
}

func TestParseAlertPattern(t *testing.T) {
	cases := []struct {
		pattern    string
		symbol     string
		target     string
		persistent bool
		ok         bool
	}{
		{"AAPL@150", "AAPL", "150", false, true},
		{"aapl@150.50", "AAPL", "150.50", false, true},
		{"AAPL@150!", "AAPL", "150", true, true},
		{"AAPL @ 150 !", "AAPL", "150", true, true},
		{"@150", "", "", false, false},
		{"AAPL@", "", "", false, false},
		{"AAPL@!", "", "", false, false},
		{"AAPL@0", "", "", false, false},
		{"AAPL@abc", "", "", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			symbol, target, persistent, ok := parseAlertPattern(tc.pattern)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if symbol != tc.symbol {
				t.Errorf("symbol = %q, want %q", symbol, tc.symbol)
			}
			want, _ := decimal.NewFromString(tc.target)
			if !target.Equal(want) {
				t.Errorf("target = %v, want %v", target, want)
			}
			if persistent != tc.persistent {
				t.Errorf("persistent = %v, want %v", persistent, tc.persistent)
			}
		})
	}
}
