package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-group-transfer/internal/domain/ports/adapter"
)

var _ adapter.Messenger = (*NoOpBotAdapter)(nil)

// NoOpBotAdapter logs outgoing messages instead of sending them.
// Useful for local development without a bot token.
type NoOpBotAdapter struct {
	log *zerolog.Logger
}

func NewNoOpBotAdapter(logger *zerolog.Logger) *NoOpBotAdapter {
	l := logger.With().Str("component", "NoOpBot").Logger()
	return &NoOpBotAdapter{log: &l}
}

func (n *NoOpBotAdapter) SendMessage(_ context.Context, params adapter.SendMessageParams) error {
	n.log.Info().Int64("chat_id", params.ChatID).Str("text", params.Text).Msg("send message (noop)")
	return nil
}
