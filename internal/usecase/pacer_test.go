//go:build !integration

package usecase_test

import (
	"context"
	"testing"
	"time"

	"telegram-group-transfer/internal/usecase"
)

func TestIntervalPacer(t *testing.T) {
	t.Run("should space consecutive waits by the interval", func(t *testing.T) {
		const interval = 50 * time.Millisecond
		pacer := usecase.NewIntervalPacer(interval)
		ctx := context.Background()

		start := time.Now()
		for i := 0; i < 3; i++ {
			if err := pacer.Wait(ctx); err != nil {
				t.Fatalf("Wait %d returned an error: %v", i, err)
			}
		}
		elapsed := time.Since(start)

		// First wait is free, the next two each cost one interval.
		if elapsed < 2*interval {
			t.Errorf("3 waits took %v, expected at least %v", elapsed, 2*interval)
		}
	})

	t.Run("should abort a pending wait when the context is cancelled", func(t *testing.T) {
		pacer := usecase.NewIntervalPacer(time.Hour)
		ctx := context.Background()

		if err := pacer.Wait(ctx); err != nil { // consume the free slot
			t.Fatalf("first Wait returned an error: %v", err)
		}

		cancelCtx, cancel := context.WithCancel(ctx)
		errCh := make(chan error, 1)
		go func() { errCh <- pacer.Wait(cancelCtx) }()
		cancel()

		select {
		case err := <-errCh:
			if err == nil {
				t.Error("Wait returned nil after cancellation")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Wait did not return after cancellation")
		}
	})
}
