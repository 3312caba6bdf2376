package command

import (
	"context"
	"strconv"
	"strings"

	"stockbot/internal/bot/view"
)

// TickerWithPeriodCommand handles [[[SYM,months]]]: a full report with a
// custom chart period. Non-numeric periods fall back to the default.
type TickerWithPeriodCommand struct {
	reporter      Reporter
	logos         LogoProvider
	defaultMonths int
}

// NewTickerWithPeriodCommand creates the period-report command
func NewTickerWithPeriodCommand(reporter Reporter, logos LogoProvider, defaultMonths int) *TickerWithPeriodCommand {
	return &TickerWithPeriodCommand{reporter: reporter, logos: logos, defaultMonths: defaultMonths}
}

func (c *TickerWithPeriodCommand) Name() string { return "ticker_with_period" }

func (c *TickerWithPeriodCommand) Matches(content string) bool {
	for _, p := range extractPatterns(content) {
		if isPeriodPattern(p) {
			return true
		}
	}
	return false
}

func (c *TickerWithPeriodCommand) Execute(ctx context.Context, channelID, content string, r Responder) error {
	seen := make(map[string]bool)

	for _, p := range extractPatterns(content) {
		if !isPeriodPattern(p) {
			continue
		}

		symbolPart, periodPart, _ := strings.Cut(p, ",")
		symbol := strings.ToUpper(strings.TrimSpace(symbolPart))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true

		months, err := strconv.Atoi(strings.TrimSpace(periodPart))
		if err != nil || months <= 0 {
			months = c.defaultMonths
		}

		report, err := c.reporter.FullReportOrSearch(ctx, symbol, months)
		if err != nil {
			// Surface the failure and keep going with the other symbols
			if sendErr := r.Send(channelID, &Reply{Embed: view.ErrorEmbed("Could not fetch data for " + symbol)}); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := r.Send(channelID, buildFullReply(report, months, c.logos)); err != nil {
			return err
		}
	}
	return nil
}
