package usecase

import (
	"context"
	"fmt"
	"time"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// ProgressReporter pushes human-readable status updates to the requester's
// chat. Every push is bounded by a short timeout and its failure is swallowed
// after logging: reporting must never slow down or fail the transfer itself.
type ProgressReporter struct {
	messenger adapter.Messenger
	timeout   time.Duration
	log       *zerolog.Logger
}

func NewProgressReporter(messenger adapter.Messenger, timeout time.Duration, logger *zerolog.Logger) *ProgressReporter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	repLog := logger.With().Str("component", "ProgressReporter").Logger()
	return &ProgressReporter{messenger: messenger, timeout: timeout, log: &repLog}
}

func (r *ProgressReporter) ScrapeStarted(ctx context.Context, chatID int64) {
	r.push(ctx, chatID, "🔍 Fetching members from the source group...")
}

func (r *ProgressReporter) Found(ctx context.Context, chatID int64, total int) {
	r.push(ctx, chatID, fmt.Sprintf("📊 Found %d members.\n🚀 Starting the transfer...", total))
}

func (r *ProgressReporter) Progress(ctx context.Context, chatID int64, s model.Snapshot) {
	r.push(ctx, chatID, fmt.Sprintf(
		"📊 Progress update\n✅ Succeeded: %d\n⏭ Skipped: %d\n❌ Failed: %d\n📈 %d/%d processed",
		s.Succeeded, s.Skipped, s.Failed, s.Processed, s.TotalScraped))
}

func (r *ProgressReporter) Final(ctx context.Context, chatID int64, sum model.Summary) {
	var text string
	switch sum.State {
	case model.JobStateCompleted:
		text = "🎉 Transfer complete!\n\n"
	case model.JobStateCancelled:
		text = "🛑 Transfer cancelled.\n\n"
	default:
		if !sum.Started() {
			text = fmt.Sprintf("❌ Transfer failed before any member was attempted.\nError: %s\n\n", sum.FatalError)
		} else {
			text = fmt.Sprintf("❌ Transfer aborted after a fatal error.\nError: %s\n\n", sum.FatalError)
		}
	}
	text += fmt.Sprintf(
		"📊 Final statistics:\n✅ Succeeded: %d\n⏭ Skipped: %d\n❌ Failed: %d\n📈 Total scraped: %d\n⏰ Duration: %s",
		sum.Succeeded, sum.Skipped, sum.Failed, sum.TotalScraped, sum.Duration.Round(time.Second))
	if sum.Failed > 0 {
		text += "\n\n⚠️ Failed invites are usually caused by user privacy settings or flood limits."
	}
	r.push(ctx, chatID, text)
}

func (r *ProgressReporter) push(ctx context.Context, chatID int64, text string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.messenger.SendMessage(ctx, adapter.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("progress push failed")
	}
}
