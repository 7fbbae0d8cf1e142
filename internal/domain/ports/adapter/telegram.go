// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

type SendMessageParams struct {
	ChatID  int64
	Text    string
	Buttons [][]InlineButton
}

// Messenger is the bot-side messaging capability: progress updates, final
// summaries and command replies all go through it.
type Messenger interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
}
