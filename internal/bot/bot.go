package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stockbot/internal/bot/command"
	"stockbot/internal/bot/view"
	"stockbot/internal/domain"
	"stockbot/internal/infra"
	"stockbot/internal/service"

	"github.com/bwmarrin/discordgo"
)

// commandTimeout bounds one message's worth of report building
const commandTimeout = 60 * time.Second

// Bot wires the Discord session to the command handler
type Bot struct {
	session *discordgo.Session
	handler *command.Handler
	service *service.StockService
	logos   *infra.LogoDownloader
	logger  *slog.Logger
}

// NewBot creates the Discord session and registers the event handlers.
func NewBot(cfg *infra.Config, svc *service.StockService, handler *command.Handler, logos *infra.LogoDownloader) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	b := &Bot{
		session: session,
		handler: handler,
		service: svc,
		logos:   logos,
		logger:  slog.Default().With("module", "bot"),
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Open connects the gateway session
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	return nil
}

// Close shuts the gateway session down
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Logged in",
		slog.String("user", r.User.Username),
		slog.Int("guilds", len(r.Guilds)),
	)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	// Bang-prefixed messages belong to other bots
	if strings.HasPrefix(m.Content, "!") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	b.handler.Execute(ctx, m.ChannelID, m.Content, b)
}

// Typing implements command.Responder
func (b *Bot) Typing(channelID string) {
	if err := b.session.ChannelTyping(channelID); err != nil {
		b.logger.Debug("Typing indicator failed", slog.Any("error", err))
	}
}

// Send implements command.Responder
func (b *Bot) Send(channelID string, reply *command.Reply) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed:      reply.Embed,
		Files:      reply.Files,
		Components: reply.Components,
	})
	return err
}

// LogoFor implements command.LogoProvider: downloads on cache miss.
func (b *Bot) LogoFor(symbol string) (string, bool) {
	if b.logos == nil {
		return "", false
	}
	path, err := b.logos.DownloadLogo(symbol)
	if err != nil {
		b.logger.Debug("Logo unavailable", slog.String("symbol", symbol), slog.Any("error", err))
		return "", false
	}
	return path, true
}

// NotifyAlert implements domain.Notifier: posts the fired alert to its channel.
func (b *Bot) NotifyAlert(alert *domain.Alert, quote *domain.Quote) error {
	_, err := b.session.ChannelMessageSendEmbed(alert.ChannelID, view.AlertFiredEmbed(alert, quote))
	return err
}
