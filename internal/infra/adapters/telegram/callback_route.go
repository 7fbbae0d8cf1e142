package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-group-transfer/internal/application"
)

func (r *RealBotAdapter) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	// Ack first so the client stops showing the spinner.
	if _, err := r.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.log.Warn().Err(err).Msg("callback ack failed")
	}

	if cb.Message == nil || cb.From == nil {
		return nil
	}

	isAdmin, err := r.facade.IsAdmin(ctx, cb.From.ID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return r.sendReply(ctx, cb.Message.Chat.ID, r.facade.ContactAdminReply())
	}

	reply, err := r.facade.HandleCallback(ctx, cb.From.ID, cb.Message.Chat.ID, cb.Data)
	if err != nil {
		r.log.Error().Err(err).Str("data", cb.Data).Int64("user_id", cb.From.ID).Msg("callback failed")
		return r.sendReply(ctx, cb.Message.Chat.ID, application.Reply{Text: "❌ Something went wrong, try again."})
	}
	return r.sendReply(ctx, cb.Message.Chat.ID, reply)
}
