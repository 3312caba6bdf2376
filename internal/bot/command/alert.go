package command

import (
	"context"
	"errors"
	"strings"

	"stockbot/internal/bot/view"
	"stockbot/internal/domain"

	"github.com/shopspring/decimal"
)

// AlertCommand handles [[[SYM@price]]]: registers a price alert for the
// channel. A trailing "!" makes the alert persistent (re-fires on every
// crossing instead of being removed after the first).
type AlertCommand struct {
	registrar AlertRegistrar
}

// NewAlertCommand creates the alert command
func NewAlertCommand(registrar AlertRegistrar) *AlertCommand {
	return &AlertCommand{registrar: registrar}
}

func (c *AlertCommand) Name() string { return "alert" }

func (c *AlertCommand) Matches(content string) bool {
	for _, p := range extractPatterns(content) {
		if isAlertPattern(p) {
			if _, _, _, ok := parseAlertPattern(p); ok {
				return true
			}
		}
	}
	return false
}

func (c *AlertCommand) Execute(ctx context.Context, channelID, content string, r Responder) error {
	seen := make(map[string]bool)

	for _, p := range extractPatterns(content) {
		if !isAlertPattern(p) {
			continue
		}
		symbol, target, persistent, ok := parseAlertPattern(p)
		if !ok || seen[symbol] {
			continue
		}
		seen[symbol] = true

		alert, quote, err := c.registrar.RegisterAlert(ctx, symbol, target, channelID, persistent)
		if err != nil {
			if errors.Is(err, domain.ErrSymbolNotFound) {
				if sendErr := r.Send(channelID, &Reply{Embed: view.NotFoundEmbed(symbol, nil)}); sendErr != nil {
					return sendErr
				}
				continue
			}
			return err
		}

		if err := r.Send(channelID, &Reply{Embed: view.AlertAckEmbed(alert, quote)}); err != nil {
			return err
		}
	}
	return nil
}

// parseAlertPattern splits "SYM@price" or "SYM@price!" into its parts.
func parseAlertPattern(p string) (symbol string, target decimal.Decimal, persistent bool, ok bool) {
	symbolPart, pricePart, found := strings.Cut(p, "@")
	if !found {
		return "", decimal.Decimal{}, false, false
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbolPart))
	pricePart = strings.TrimSpace(pricePart)

	if strings.HasSuffix(pricePart, "!") {
		persistent = true
		pricePart = strings.TrimSpace(strings.TrimSuffix(pricePart, "!"))
	}

	if symbol == "" || pricePart == "" {
		return "", decimal.Decimal{}, false, false
	}

	target, err := decimal.NewFromString(pricePart)
	if err != nil || !target.IsPositive() {
		return "", decimal.Decimal{}, false, false
	}

	return symbol, target, persistent, true
}
