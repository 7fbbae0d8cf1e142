//go:build !integration

package telegram_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telegram-group-transfer/internal/domain/ports/adapter"
	tele "telegram-group-transfer/internal/infra/adapters/telegram"
)

func TestNoOpBotAdapter(t *testing.T) {
	t.Run("should log instead of sending", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		bot := tele.NewNoOpBotAdapter(&logger)

		var m adapter.Messenger = bot
		err := m.SendMessage(context.Background(), adapter.SendMessageParams{
			ChatID: 42,
			Text:   "transfer started",
		})
		if err != nil {
			t.Fatalf("SendMessage returned an error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "transfer started") || !strings.Contains(out, "42") {
			t.Errorf("log entry missing message details: %q", out)
		}
	})
}
