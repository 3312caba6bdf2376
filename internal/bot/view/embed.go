package view

import (
	"fmt"
	"sort"

	"stockbot/internal/domain"
	"stockbot/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

// Embed colors matching the usual chat-client palette
const (
	ColorGreen  = 0x2ecc71
	ColorRed    = 0xe74c3c
	ColorBlue   = 0x3498db
	ColorOrange = 0xe67e22
)

const (
	// ChartAttachmentName is the filename the chart PNG is attached under
	ChartAttachmentName = "chart.png"
	// LogoAttachmentName is the filename the logo PNG is attached under
	LogoAttachmentName = "logo.png"
)

const maxSearchResults = 5

// FullReportEmbed builds the complete report embed: price, exchange, daily
// change, and period returns. When hasChart is set, the embed references the
// chart attachment; hasLogo likewise for the thumbnail.
func FullReportEmbed(report *service.Report, hasChart, hasLogo bool) *discordgo.MessageEmbed {
	quote := report.Quote

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (%s)", quote.DisplayName(), quote.Symbol),
		Color: directionColor(quote),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Price", Value: fmt.Sprintf("%s %s", quote.Currency, quote.Price.StringFixed(2)), Inline: true},
			{Name: "Exchange", Value: orNA(quote.Exchange), Inline: true},
			{Name: "Daily % Change", Value: pctString(quote.DailyChangePct()), Inline: true},
		},
	}

	// Period returns in ascending order
	months := make([]int, 0, len(report.Returns))
	for m := range report.Returns {
		months = append(months, m)
	}
	sort.Ints(months)
	for _, m := range months {
		label := fmt.Sprintf("%d Month Return", m)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   label,
			Value:  pctString(report.Returns[m]),
			Inline: true,
		})
	}

	if hasChart {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + ChartAttachmentName}
	}
	if hasLogo {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: "attachment://" + LogoAttachmentName}
	}

	return embed
}

// BriefEmbed builds the minimal embed: just price and daily change.
func BriefEmbed(report *service.Report) *discordgo.MessageEmbed {
	quote := report.Quote

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (%s)", quote.DisplayName(), quote.Symbol),
		Color: directionColor(quote),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Price", Value: fmt.Sprintf("%s %s", quote.Currency, quote.Price.StringFixed(2)), Inline: true},
			{Name: "Daily % Change", Value: pctString(quote.DailyChangePct()), Inline: true},
		},
	}
}

// SearchEmbed lists ticker search hits for a query.
func SearchEmbed(query string, results []domain.SearchResult) *discordgo.MessageEmbed {
	if len(results) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "No Results",
			Description: fmt.Sprintf("No tickers found for search: `%s`", query),
			Color:       ColorOrange,
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Search results for '%s'", query),
		Color: ColorBlue,
	}
	for _, r := range results {
		if len(embed.Fields) >= maxSearchResults {
			break
		}
		name := r.Name
		if name == "" {
			name = "No name"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  r.Symbol,
			Value: name,
		})
	}
	return embed
}

// NotFoundEmbed reports a failed lookup, carrying search suggestions when any.
func NotFoundEmbed(input string, suggestions []domain.SearchResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Stock Not Found",
		Description: fmt.Sprintf("Could not find stock info for '%s'.", input),
		Color:       ColorOrange,
	}
	for _, r := range suggestions {
		if len(embed.Fields) >= maxSearchResults {
			break
		}
		name := r.Name
		if name == "" {
			name = "No name"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  r.Symbol,
			Value: name,
		})
	}
	return embed
}

// ErrorEmbed reports an operational failure to the channel.
func ErrorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: description,
		Color:       ColorRed,
	}
}

// AlertAckEmbed acknowledges a newly registered price alert.
func AlertAckEmbed(alert *domain.Alert, quote *domain.Quote) *discordgo.MessageEmbed {
	arrow := "rises above"
	if alert.Direction == "DOWN" {
		arrow = "falls below"
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Alert set for %s", alert.Symbol),
		Description: fmt.Sprintf("You will be notified when %s %s %s %s (now %s %s).",
			alert.Symbol, arrow, quote.Currency, alert.TargetPrice.StringFixed(2),
			quote.Currency, quote.Price.StringFixed(2)),
		Color: ColorBlue,
	}
}

// AlertFiredEmbed announces a triggered price alert.
func AlertFiredEmbed(alert *domain.Alert, quote *domain.Quote) *discordgo.MessageEmbed {
	crossed := "above"
	if alert.Direction == "DOWN" {
		crossed = "below"
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Price alert: %s", alert.Symbol),
		Description: fmt.Sprintf("%s crossed %s %s %s (now %s %s).",
			quote.DisplayName(), crossed, quote.Currency, alert.TargetPrice.StringFixed(2),
			quote.Currency, quote.Price.StringFixed(2)),
		Color: ColorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Price", Value: fmt.Sprintf("%s %s", quote.Currency, quote.Price.StringFixed(2)), Inline: true},
			{Name: "Daily % Change", Value: pctString(quote.DailyChangePct()), Inline: true},
		},
	}
}

func directionColor(quote *domain.Quote) int {
	switch quote.ChangeDirection() {
	case "positive":
		return ColorGreen
	case "negative":
		return ColorRed
	default:
		return ColorBlue
	}
}

func pctString(pct *decimal.Decimal) string {
	if pct == nil {
		return "N/A"
	}
	sign := ""
	if !pct.IsNegative() {
		sign = "+"
	}
	return sign + pct.StringFixed(2) + "%"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
