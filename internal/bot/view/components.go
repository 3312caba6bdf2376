package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Button custom IDs encode action, symbol, and period so the interaction
// handler is stateless: "report:refresh:AAPL:3", "brief:full:AAPL".
const (
	ActionReportRefresh = "report:refresh"
	ActionReportPeriod  = "report:period"
	ActionBriefRefresh  = "brief:refresh"
	ActionBriefFull     = "brief:full"
)

// chartPeriods are the selectable chart periods in months
var chartPeriods = []struct {
	Months int
	Label  string
}{
	{1, "1M"},
	{3, "3M"},
	{6, "6M"},
	{12, "1Y"},
}

// ButtonAction is a decoded button press
type ButtonAction struct {
	Action string
	Symbol string
	Months int
}

// ParseCustomID decodes a component custom ID. Returns false for IDs this
// bot did not produce.
func ParseCustomID(id string) (ButtonAction, bool) {
	parts := strings.Split(id, ":")
	if len(parts) < 3 {
		return ButtonAction{}, false
	}

	action := parts[0] + ":" + parts[1]
	ba := ButtonAction{Action: action, Symbol: parts[2]}

	switch action {
	case ActionReportRefresh, ActionReportPeriod:
		if len(parts) != 4 {
			return ButtonAction{}, false
		}
		months, err := strconv.Atoi(parts[3])
		if err != nil || months <= 0 {
			return ButtonAction{}, false
		}
		ba.Months = months
		return ba, true
	case ActionBriefRefresh, ActionBriefFull:
		return ba, true
	default:
		return ButtonAction{}, false
	}
}

// FullReportComponents builds the refresh + period button row for a full
// report. The currently selected period is highlighted.
func FullReportComponents(symbol string, currentMonths int) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "🔄 Refresh",
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("%s:%s:%d", ActionReportRefresh, symbol, currentMonths),
		},
	}

	for _, p := range chartPeriods {
		style := discordgo.SecondaryButton
		if p.Months == currentMonths {
			style = discordgo.PrimaryButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    p.Label,
			Style:    style,
			CustomID: fmt.Sprintf("%s:%s:%d", ActionReportPeriod, symbol, p.Months),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

// BriefComponents builds the refresh + full-report button row for a brief
// report.
func BriefComponents(symbol string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "🔄 Refresh",
				Style:    discordgo.SuccessButton,
				CustomID: fmt.Sprintf("%s:%s", ActionBriefRefresh, symbol),
			},
			discordgo.Button{
				Label:    "📊 Full Report",
				Style:    discordgo.PrimaryButton,
				CustomID: fmt.Sprintf("%s:%s", ActionBriefFull, symbol),
			},
		}},
	}
}
