package usecase

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// InvitePacer spaces out invite calls so they stay under Telegram's abuse
// thresholds. A wait is never skipped.
type InvitePacer interface {
	Wait(ctx context.Context) error
}

// Compile-time check
var _ InvitePacer = (*intervalPacer)(nil)

type intervalPacer struct {
	lim *rate.Limiter
}

// NewIntervalPacer returns a pacer whose Wait suspends the caller until at
// least interval has elapsed since the previous permitted call. Burst is 1:
// only the very first call passes immediately.
func NewIntervalPacer(interval time.Duration) InvitePacer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &intervalPacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
