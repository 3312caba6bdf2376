package command

import (
	"bytes"
	"os"

	"stockbot/internal/bot/view"
	"stockbot/internal/service"

	"github.com/bwmarrin/discordgo"
)

// buildFullReply turns a full report into a sendable reply: embed, chart and
// logo attachments, and the period button row. Not-found reports become the
// suggestion embed without components.
func buildFullReply(report *service.Report, months int, logos LogoProvider) *Reply {
	if report.Quote == nil {
		return &Reply{Embed: view.NotFoundEmbed(report.FailedInput, report.Suggestions)}
	}

	reply := &Reply{}

	hasChart := len(report.ChartPNG) > 0
	if hasChart {
		reply.Files = append(reply.Files, &discordgo.File{
			Name:        view.ChartAttachmentName,
			ContentType: "image/png",
			Reader:      bytes.NewReader(report.ChartPNG),
		})
	}

	hasLogo := false
	if logos != nil {
		if path, ok := logos.LogoFor(report.Quote.Symbol); ok {
			if data, err := os.ReadFile(path); err == nil {
				hasLogo = true
				reply.Files = append(reply.Files, &discordgo.File{
					Name:        view.LogoAttachmentName,
					ContentType: "image/png",
					Reader:      bytes.NewReader(data),
				})
			}
		}
	}

	reply.Embed = view.FullReportEmbed(report, hasChart, hasLogo)
	reply.Components = view.FullReportComponents(report.Quote.Symbol, months)
	return reply
}

// buildBriefReply turns a brief report into a sendable reply with the
// refresh / full-report buttons.
func buildBriefReply(report *service.Report) *Reply {
	if report.Quote == nil {
		return &Reply{Embed: view.NotFoundEmbed(report.FailedInput, report.Suggestions)}
	}

	return &Reply{
		Embed:      view.BriefEmbed(report),
		Components: view.BriefComponents(report.Quote.Symbol),
	}
}
