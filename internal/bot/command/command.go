package command

import (
	"context"
	"fmt"
	"log/slog"

	"stockbot/internal/domain"
	"stockbot/internal/infra"
	"stockbot/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

// Reply is one outgoing channel message
type Reply struct {
	Embed      *discordgo.MessageEmbed
	Files      []*discordgo.File
	Components []discordgo.MessageComponent
}

// Responder sends replies back to the chat surface
type Responder interface {
	Typing(channelID string)
	Send(channelID string, reply *Reply) error
}

// Reporter builds symbol reports. Implemented by service.StockService.
type Reporter interface {
	FullReportOrSearch(ctx context.Context, symbol string, chartMonths int) (*service.Report, error)
	BriefReportOrSearch(ctx context.Context, symbol string) (*service.Report, error)
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// LogoProvider resolves a cached logo file for a symbol, when one exists
type LogoProvider interface {
	LogoFor(symbol string) (path string, ok bool)
}

// AlertRegistrar creates and persists a price alert for a channel
type AlertRegistrar interface {
	RegisterAlert(ctx context.Context, symbol string, target decimal.Decimal, channelID string, persistent bool) (*domain.Alert, *domain.Quote, error)
}

// Command handles one triple-bracket message form
type Command interface {
	Name() string
	Matches(content string) bool
	Execute(ctx context.Context, channelID, content string, r Responder) error
}

// Handler dispatches incoming messages to registered commands.
// Commands are tried in registration order (more specific first) and every
// matching command runs.
type Handler struct {
	commands []Command
	logger   *slog.Logger
}

// NewHandler creates an empty command handler
func NewHandler() *Handler {
	return &Handler{
		logger: slog.Default().With("module", "command_handler"),
	}
}

// Register adds a command. Registering a duplicate name is an error.
func (h *Handler) Register(cmd Command) error {
	for _, existing := range h.commands {
		if existing.Name() == cmd.Name() {
			return fmt.Errorf("command %s already registered", cmd.Name())
		}
	}
	h.commands = append(h.commands, cmd)
	return nil
}

// Execute runs every command whose Matches accepts the message content.
func (h *Handler) Execute(ctx context.Context, channelID, content string, r Responder) {
	matched := false
	for _, cmd := range h.commands {
		if !cmd.Matches(content) {
			continue
		}

		if !matched {
			matched = true
			r.Typing(channelID)
		}

		infra.GlobalMetrics.RecordCommand()
		if err := cmd.Execute(ctx, channelID, content, r); err != nil {
			h.logger.Error("Command failed",
				slog.String("command", cmd.Name()),
				slog.Any("error", err),
			)
		}
	}
}
