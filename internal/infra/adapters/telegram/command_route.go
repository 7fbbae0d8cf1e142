package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-group-transfer/internal/application"
	"telegram-group-transfer/internal/infra/metrics"
	red "telegram-group-transfer/internal/infra/redis"
)

// commandHandler processes a single bot command for one message.
type commandHandler func(ctx context.Context, r *RealBotAdapter, message *tgbotapi.Message) (application.Reply, error)

// commandRoutes maps the command word (without the leading slash) to its
// handler. Every route is admin-gated by handleCommand before dispatch.
var commandRoutes = map[string]commandHandler{
	"start": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleStart(ctx, m.From.ID)
	},
	"scrapemembers": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleScrapeMembers(ctx, m.From.ID, m.Chat.ID)
	},
	"promote": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandlePromote(ctx, m.From.ID, m.CommandArguments())
	},
	"remove": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleRemove(ctx, m.From.ID, m.CommandArguments())
	},
	"adminlist": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleAdminList(ctx)
	},
	"cancel": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleCancel(ctx, m.From.ID)
	},
	"status": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleStatus(ctx, m.From.ID)
	},
	"refresh": func(ctx context.Context, r *RealBotAdapter, m *tgbotapi.Message) (application.Reply, error) {
		return r.facade.HandleRefresh(ctx)
	},
}

const (
	commandWindow = time.Minute
	commandLimit  = 20
)

func (r *RealBotAdapter) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	command := strings.ToLower(message.Command())
	userID := message.From.ID

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(userID, command), commandLimit, commandWindow)
		if err != nil {
			r.log.Warn().Err(err).Int64("user_id", userID).Msg("command rate check failed, allowing")
		} else if !allowed {
			metrics.IncAdminCommand(command, "throttled")
			return r.sendReply(ctx, message.Chat.ID, application.Reply{Text: "⏳ Too many commands, slow down a bit."})
		}
	}

	isAdmin, err := r.facade.IsAdmin(ctx, userID)
	if err != nil {
		metrics.IncAdminCommand(command, "error")
		return err
	}
	if !isAdmin {
		metrics.IncAdminCommand(command, "denied")
		r.log.Warn().Int64("user_id", userID).Str("command", command).Msg("unauthorized command")
		return r.sendReply(ctx, message.Chat.ID, r.facade.ContactAdminReply())
	}

	// Unknown slash-commands from admins are dropped after the gate; from
	// non-admins they get the contact reply above, like any other command.
	handler, ok := commandRoutes[command]
	if !ok {
		metrics.IncAdminCommand(command, "unknown")
		return nil
	}

	reply, err := handler(ctx, r, message)
	if err != nil {
		metrics.IncAdminCommand(command, "error")
		r.log.Error().Err(err).Str("command", command).Int64("user_id", userID).Msg("command failed")
		return r.sendReply(ctx, message.Chat.ID, application.Reply{Text: "❌ Something went wrong, try again."})
	}
	metrics.IncAdminCommand(command, "ok")
	return r.sendReply(ctx, message.Chat.ID, reply)
}
