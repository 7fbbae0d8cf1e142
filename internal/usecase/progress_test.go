//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/adapter"
	"telegram-group-transfer/internal/usecase"
)

func TestProgressReporter(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("should render counters into the progress text", func(t *testing.T) {
		messenger := &MockMessenger{}
		reporter := usecase.NewProgressReporter(messenger, time.Second, logger)

		reporter.Progress(ctx, 42, model.Snapshot{
			TotalScraped: 50, Processed: 20, Succeeded: 15, Skipped: 3, Failed: 2,
		})

		if len(messenger.Sent) != 1 {
			t.Fatalf("expected 1 message, got %d", len(messenger.Sent))
		}
		sent := messenger.Sent[0]
		if sent.ChatID != 42 {
			t.Errorf("wrong chat id: %d", sent.ChatID)
		}
		for _, want := range []string{"15", "3", "2", "20/50"} {
			if !strings.Contains(sent.Text, want) {
				t.Errorf("progress text missing %q: %q", want, sent.Text)
			}
		}
	})

	t.Run("should never propagate send failures", func(t *testing.T) {
		messenger := &MockMessenger{
			SendMessageFunc: func(_ context.Context, _ adapter.SendMessageParams) error {
				return errors.New("telegram is down")
			},
		}
		reporter := usecase.NewProgressReporter(messenger, time.Second, logger)

		// None of these return errors; a panic or hang here fails the test.
		reporter.ScrapeStarted(ctx, 1)
		reporter.Found(ctx, 1, 10)
		reporter.Progress(ctx, 1, model.Snapshot{})
		reporter.Final(ctx, 1, model.Summary{State: model.JobStateCompleted})
	})

	t.Run("should describe each terminal state distinctly", func(t *testing.T) {
		messenger := &MockMessenger{}
		reporter := usecase.NewProgressReporter(messenger, time.Second, logger)

		reporter.Final(ctx, 1, model.Summary{State: model.JobStateCompleted, Succeeded: 5})
		reporter.Final(ctx, 1, model.Summary{State: model.JobStateCancelled, Succeeded: 2})
		reporter.Final(ctx, 1, model.Summary{State: model.JobStateFatal, FatalError: "lost admin rights", Succeeded: 1})
		reporter.Final(ctx, 1, model.Summary{State: model.JobStateFatal, FatalError: "group not found"})

		texts := messenger.SentTexts()
		if len(texts) != 4 {
			t.Fatalf("expected 4 messages, got %d", len(texts))
		}
		if !strings.Contains(texts[0], "complete") {
			t.Errorf("completed text: %q", texts[0])
		}
		if !strings.Contains(texts[1], "cancelled") {
			t.Errorf("cancelled text: %q", texts[1])
		}
		if !strings.Contains(texts[2], "lost admin rights") {
			t.Errorf("fatal text should carry the error: %q", texts[2])
		}
		if !strings.Contains(texts[3], "before any member") {
			t.Errorf("never-started fatal text: %q", texts[3])
		}
	})

	t.Run("should mention privacy hints when failures occurred", func(t *testing.T) {
		messenger := &MockMessenger{}
		reporter := usecase.NewProgressReporter(messenger, time.Second, logger)

		reporter.Final(ctx, 1, model.Summary{State: model.JobStateCompleted, Succeeded: 4, Failed: 2})
		if !strings.Contains(messenger.Sent[0].Text, "privacy") {
			t.Errorf("expected privacy hint: %q", messenger.Sent[0].Text)
		}
	})
}
