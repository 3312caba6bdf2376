package command

import (
	"context"
	"strings"

	"stockbot/internal/bot/view"
)

// TickerCommand handles [[[SYM]]] (full report with default period) and
// [[[?query]]] (ticker search).
type TickerCommand struct {
	reporter      Reporter
	logos         LogoProvider
	defaultMonths int
}

// NewTickerCommand creates the default ticker command
func NewTickerCommand(reporter Reporter, logos LogoProvider, defaultMonths int) *TickerCommand {
	return &TickerCommand{reporter: reporter, logos: logos, defaultMonths: defaultMonths}
}

func (c *TickerCommand) Name() string { return "ticker" }

func (c *TickerCommand) Matches(content string) bool {
	for _, p := range extractPatterns(content) {
		if isQueryPattern(p) || isPlainPattern(p) {
			return true
		}
	}
	return false
}

func (c *TickerCommand) Execute(ctx context.Context, channelID, content string, r Responder) error {
	var queries, symbols []string

	for _, p := range extractPatterns(content) {
		switch {
		case isQueryPattern(p):
			if q := strings.TrimSpace(strings.TrimPrefix(p, "?")); q != "" {
				queries = append(queries, q)
			}
		case isPlainPattern(p):
			// Take the first whitespace-separated token as the symbol
			symbols = append(symbols, strings.ToUpper(strings.Fields(p)[0]))
		}
	}
	queries = dedupe(queries)
	symbols = dedupe(symbols)

	for _, query := range queries {
		results, err := c.reporter.Search(ctx, query)
		if err != nil {
			if sendErr := r.Send(channelID, &Reply{Embed: view.ErrorEmbed("Error searching for '" + query + "': " + err.Error())}); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := r.Send(channelID, &Reply{Embed: view.SearchEmbed(query, results)}); err != nil {
			return err
		}
	}

	for _, symbol := range symbols {
		report, err := c.reporter.FullReportOrSearch(ctx, symbol, c.defaultMonths)
		if err != nil {
			// Surface the failure and keep going with the other symbols
			if sendErr := r.Send(channelID, &Reply{Embed: view.ErrorEmbed("Could not fetch data for " + symbol)}); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := r.Send(channelID, buildFullReply(report, c.defaultMonths, c.logos)); err != nil {
			return err
		}
	}
	return nil
}
