package command

import (
	"context"
	"strings"

	"stockbot/internal/bot/view"
)

// MinimalTickerCommand handles [[[-SYM]]]: a brief price + daily change reply
type MinimalTickerCommand struct {
	reporter Reporter
}

// NewMinimalTickerCommand creates the minimal ticker command
func NewMinimalTickerCommand(reporter Reporter) *MinimalTickerCommand {
	return &MinimalTickerCommand{reporter: reporter}
}

func (c *MinimalTickerCommand) Name() string { return "minimal_ticker" }

func (c *MinimalTickerCommand) Matches(content string) bool {
	for _, p := range extractPatterns(content) {
		if isMinimalPattern(p) && c.symbolOf(p) != "" {
			return true
		}
	}
	return false
}

func (c *MinimalTickerCommand) Execute(ctx context.Context, channelID, content string, r Responder) error {
	var symbols []string
	for _, p := range extractPatterns(content) {
		if !isMinimalPattern(p) {
			continue
		}
		if sym := c.symbolOf(p); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	symbols = dedupe(symbols)

	for _, symbol := range symbols {
		report, err := c.reporter.BriefReportOrSearch(ctx, symbol)
		if err != nil {
			// Surface the failure and keep going with the other symbols
			if sendErr := r.Send(channelID, &Reply{Embed: view.ErrorEmbed("Could not fetch data for " + symbol)}); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := r.Send(channelID, buildBriefReply(report)); err != nil {
			return err
		}
	}
	return nil
}

// symbolOf strips the leading dash and any extraneous comma parameters
func (c *MinimalTickerCommand) symbolOf(pattern string) string {
	sym := strings.TrimSpace(strings.TrimPrefix(pattern, "-"))
	sym, _, _ = strings.Cut(sym, ",")
	return strings.ToUpper(strings.TrimSpace(sym))
}
