package notifier

import (
	"context"

	"github.com/NordCoder/Pingwatch/internal/domain/notification"
	"golang.org/x/time/rate"
)

// RateLimited caps how fast a channel sends. Callers block until a token is
// available or ctx ends.
type RateLimited struct {
	next    notification.Channel
	limiter *rate.Limiter
}

var _ notification.Channel = (*RateLimited)(nil)

func NewRateLimited(next notification.Channel, perSec int) notification.Channel {
	if perSec <= 0 {
		return next
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(perSec), perSec)}
}

func (r *RateLimited) Name() string { return r.next.Name() }

func (r *RateLimited) Notify(ctx context.Context, owner, text string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.Notify(ctx, owner, text)
}
