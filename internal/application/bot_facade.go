package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telegram-group-transfer/internal/domain"
	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"
	"telegram-group-transfer/internal/usecase"
)

// Reply is what a command handler hands back to the Telegram adapter: text
// plus an optional inline keyboard.
type Reply struct {
	Text    string
	Buttons [][]adapter.InlineButton
}

// BotFacade composes use cases into high-level bot commands. Keep the facade
// returning Reply values so the Telegram adapter just forwards them to the
// chat.
type BotFacade struct {
	AdminUC    usecase.AdminUseCase
	SetupUC    usecase.SetupUseCase
	TransferUC usecase.TransferUseCase

	contactUsername string
}

func NewBotFacade(
	adminUC usecase.AdminUseCase,
	setupUC usecase.SetupUseCase,
	transferUC usecase.TransferUseCase,
	contactUsername string,
) *BotFacade {
	return &BotFacade{
		AdminUC:         adminUC,
		SetupUC:         setupUC,
		TransferUC:      transferUC,
		contactUsername: strings.TrimPrefix(contactUsername, "@"),
	}
}

// IsAdmin is the allow-list check the adapter's middleware runs before every
// admin command.
func (b *BotFacade) IsAdmin(ctx context.Context, tgID int64) (bool, error) {
	return b.AdminUC.IsAdmin(ctx, tgID)
}

// ContactAdminReply is shown to non-admins attempting any command.
func (b *BotFacade) ContactAdminReply() Reply {
	r := Reply{Text: "❌ This bot is for admins only. Please contact an admin for access."}
	if b.contactUsername != "" {
		r.Buttons = [][]adapter.InlineButton{{
			{Text: "Contact Admin", URL: "https://t.me/" + b.contactUsername},
		}}
	}
	return r
}

func (b *BotFacade) HandleStart(ctx context.Context, tgID int64) (Reply, error) {
	return Reply{Text: "🤖 Welcome!\n\n" +
		"Available commands:\n" +
		"• /scrapemembers — transfer members between groups\n" +
		"• /status — show the running transfer\n" +
		"• /cancel — cancel the running transfer\n" +
		"• /promote <uid> — promote a user to admin\n" +
		"• /remove <uid> — remove an admin\n" +
		"• /adminlist — show current admins\n" +
		"• /refresh — check the bot is alive\n\n" +
		"⚠️ All commands are admin-only."}, nil
}

func (b *BotFacade) HandleRefresh(ctx context.Context) (Reply, error) {
	return Reply{Text: "🔄 Bot refreshed successfully! All systems operational."}, nil
}

func setupKeyboard() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{
			{Text: "📥 Fetch from", Data: "fetch_from"},
			{Text: "📤 Push to", Data: "push_to"},
		},
		{
			{Text: "✅ Done", Data: "done_setup"},
		},
	}
}

// HandleScrapeMembers begins the transfer setup flow.
func (b *BotFacade) HandleScrapeMembers(ctx context.Context, tgID, chatID int64) (Reply, error) {
	if err := b.SetupUC.Begin(ctx, tgID, chatID); err != nil {
		return Reply{}, fmt.Errorf("begin setup: %w", err)
	}
	return Reply{
		Text: "🔄 Member transfer setup\n\n" +
			"• Fetch from: the source group/channel\n" +
			"• Push to: the target group/channel\n\n" +
			"Configure both, then press Done to start.",
		Buttons: setupKeyboard(),
	}, nil
}

// HandleCallback dispatches the setup flow's inline-keyboard presses.
func (b *BotFacade) HandleCallback(ctx context.Context, tgID, chatID int64, data string) (Reply, error) {
	switch data {
	case "fetch_from":
		if err := b.SetupUC.ChooseSource(ctx, tgID); err != nil {
			return Reply{Text: "❌ No setup in progress. Use /scrapemembers first."}, nil
		}
		return Reply{Text: "📥 Send the chat ID of the group to fetch members FROM.\nExample: -1001234567890 or @channelname"}, nil
	case "push_to":
		if err := b.SetupUC.ChooseTarget(ctx, tgID); err != nil {
			return Reply{Text: "❌ No setup in progress. Use /scrapemembers first."}, nil
		}
		return Reply{Text: "📤 Send the chat ID of the group to push members TO.\nExample: -1001234567890 or @channelname"}, nil
	case "done_setup":
		return b.startTransfer(ctx, tgID)
	default:
		return Reply{}, fmt.Errorf("%w: unknown callback %q", domain.ErrInvalidArgument, data)
	}
}

func (b *BotFacade) startTransfer(ctx context.Context, tgID int64) (Reply, error) {
	req, err := b.SetupUC.Done(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrSetupIncomplete) {
			return Reply{Text: "❌ Set both SOURCE and TARGET group IDs first!", Buttons: setupKeyboard()}, nil
		}
		return Reply{}, err
	}
	jobID, err := b.TransferUC.StartTransfer(ctx, *req)
	if err != nil {
		if errors.Is(err, domain.ErrJobAlreadyRunning) {
			return Reply{Text: "⚠️ You already have a transfer running. Use /status or /cancel."}, nil
		}
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf(
		"🚀 Starting member transfer\n\nFrom: %s\nTo: %s\nJob: %s\n\nProgress updates will appear here.",
		req.Source, req.Target, jobID)}, nil
}

// HandleText feeds plain text into the setup flow. It reports whether the
// message was consumed so the adapter can ignore unrelated chatter.
func (b *BotFacade) HandleText(ctx context.Context, tgID int64, text string) (Reply, bool, error) {
	consumed, reply, err := b.SetupUC.HandleInput(ctx, tgID, text)
	if !consumed {
		return Reply{}, false, nil
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return Reply{Text: "❌ That doesn't look like a group ID or @username. Try again."}, true, nil
		}
		return Reply{}, true, err
	}
	return Reply{Text: reply, Buttons: setupKeyboard()}, true, nil
}

func (b *BotFacade) HandlePromote(ctx context.Context, tgID int64, args string) (Reply, error) {
	uid, err := parseUserID(args)
	if err != nil {
		return Reply{Text: "❌ Usage: /promote <user_id>"}, nil
	}
	if err := b.AdminUC.Promote(ctx, uid, "", "", tgID); err != nil {
		return Reply{}, fmt.Errorf("promote %d: %w", uid, err)
	}
	return Reply{Text: fmt.Sprintf("✅ User %d promoted to admin.", uid)}, nil
}

func (b *BotFacade) HandleRemove(ctx context.Context, tgID int64, args string) (Reply, error) {
	uid, err := parseUserID(args)
	if err != nil {
		return Reply{Text: "❌ Usage: /remove <user_id>"}, nil
	}
	isAdmin, err := b.AdminUC.IsAdmin(ctx, uid)
	if err != nil {
		return Reply{}, err
	}
	if !isAdmin {
		return Reply{Text: "❌ User is not an admin."}, nil
	}
	if err := b.AdminUC.Demote(ctx, uid); err != nil {
		return Reply{}, fmt.Errorf("remove admin %d: %w", uid, err)
	}
	return Reply{Text: fmt.Sprintf("✅ Admin %d removed.", uid)}, nil
}

func (b *BotFacade) HandleAdminList(ctx context.Context) (Reply, error) {
	admins, err := b.AdminUC.List(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("list admins: %w", err)
	}
	if len(admins) == 0 {
		return Reply{Text: "❌ No admins found."}, nil
	}
	sb := strings.Builder{}
	sb.WriteString("👥 Current admins:\n\n")
	for i, a := range admins {
		username := a.Username
		if username == "" {
			username = "N/A"
		}
		sb.WriteString(fmt.Sprintf("%d. %d (@%s), added %s\n",
			i+1, a.UserID, username, a.AddedAt.Format("2006-01-02")))
	}
	return Reply{Text: sb.String()}, nil
}

func (b *BotFacade) HandleCancel(ctx context.Context, tgID int64) (Reply, error) {
	if b.TransferUC.Cancel(tgID) {
		return Reply{Text: "🛑 Cancellation requested. The job stops after the current invite."}, nil
	}
	return Reply{Text: "❌ You have no running transfer."}, nil
}

func (b *BotFacade) HandleStatus(ctx context.Context, tgID int64) (Reply, error) {
	snap, err := b.TransferUC.Status(tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Reply{Text: "❌ You have no running transfer."}, nil
		}
		return Reply{}, err
	}
	return Reply{Text: renderStatus(snap)}, nil
}

func renderStatus(s *model.Snapshot) string {
	switch s.State {
	case model.JobStateScraping:
		return fmt.Sprintf("🔍 Job %s is scraping the source group...", s.JobID)
	default:
		return fmt.Sprintf(
			"📊 Job %s (%s)\n✅ Succeeded: %d\n⏭ Skipped: %d\n❌ Failed: %d\n📈 %d/%d processed",
			s.JobID, s.State, s.Succeeded, s.Skipped, s.Failed, s.Processed, s.TotalScraped)
	}
}

func parseUserID(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, domain.ErrInvalidArgument
	}
	uid, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || uid <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	return uid, nil
}
