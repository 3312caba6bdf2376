package bot

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"stockbot/internal/bot/view"

	"github.com/bwmarrin/discordgo"
)

// onInteractionCreate handles the report buttons (refresh, period change,
// brief-to-full). The message is edited in place after a deferred update.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	action, ok := view.ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	// Acknowledge immediately; report building can take seconds
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		b.logger.Warn("Interaction ack failed", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var edit *discordgo.WebhookEdit
	switch action.Action {
	case view.ActionReportRefresh, view.ActionReportPeriod, view.ActionBriefFull:
		months := action.Months
		if months <= 0 {
			months = 3
		}
		edit = b.buildFullEdit(ctx, action.Symbol, months)
	case view.ActionBriefRefresh:
		edit = b.buildBriefEdit(ctx, action.Symbol)
	default:
		return
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		b.logger.Warn("Interaction edit failed",
			slog.String("symbol", action.Symbol),
			slog.Any("error", err),
		)
	}
}

func (b *Bot) buildFullEdit(ctx context.Context, symbol string, months int) *discordgo.WebhookEdit {
	report, err := b.service.FullReportOrSearch(ctx, symbol, months)
	if err != nil {
		return errorEdit(symbol)
	}
	if report.Quote == nil {
		return embedOnlyEdit(view.NotFoundEmbed(report.FailedInput, report.Suggestions))
	}

	var files []*discordgo.File
	hasChart := len(report.ChartPNG) > 0
	if hasChart {
		files = append(files, &discordgo.File{
			Name:        view.ChartAttachmentName,
			ContentType: "image/png",
			Reader:      bytes.NewReader(report.ChartPNG),
		})
	}

	hasLogo := false
	if path, ok := b.LogoFor(symbol); ok {
		if data, err := os.ReadFile(path); err == nil {
			hasLogo = true
			files = append(files, &discordgo.File{
				Name:        view.LogoAttachmentName,
				ContentType: "image/png",
				Reader:      bytes.NewReader(data),
			})
		}
	}

	embeds := []*discordgo.MessageEmbed{view.FullReportEmbed(report, hasChart, hasLogo)}
	components := view.FullReportComponents(symbol, months)
	// Replace previous attachments entirely
	attachments := []*discordgo.MessageAttachment{}

	return &discordgo.WebhookEdit{
		Embeds:      &embeds,
		Files:       files,
		Components:  &components,
		Attachments: &attachments,
	}
}

func (b *Bot) buildBriefEdit(ctx context.Context, symbol string) *discordgo.WebhookEdit {
	report, err := b.service.BriefReportOrSearch(ctx, symbol)
	if err != nil {
		return errorEdit(symbol)
	}
	if report.Quote == nil {
		return embedOnlyEdit(view.NotFoundEmbed(report.FailedInput, report.Suggestions))
	}

	embeds := []*discordgo.MessageEmbed{view.BriefEmbed(report)}
	components := view.BriefComponents(symbol)
	attachments := []*discordgo.MessageAttachment{}

	return &discordgo.WebhookEdit{
		Embeds:      &embeds,
		Components:  &components,
		Attachments: &attachments,
	}
}

func errorEdit(symbol string) *discordgo.WebhookEdit {
	return embedOnlyEdit(view.ErrorEmbed("Could not fetch data for " + symbol))
}

func embedOnlyEdit(embed *discordgo.MessageEmbed) *discordgo.WebhookEdit {
	embeds := []*discordgo.MessageEmbed{embed}
	// Drop any chart/logo left attached by the previous report
	attachments := []*discordgo.MessageAttachment{}
	return &discordgo.WebhookEdit{
		Embeds:      &embeds,
		Attachments: &attachments,
	}
}
