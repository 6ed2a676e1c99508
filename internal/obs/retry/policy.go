package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// DefaultBootstrapPolicy retries startup dependencies (store connection,
// kafka topic) for roughly a minute before giving up.
func DefaultBootstrapPolicy(name string, log *zap.Logger) Policy {
	return Policy{
		Name:     name,
		Attempts: 6,
		Backoff:  ExpoJitter{Base: 200 * time.Millisecond, Max: 30 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("bootstrap retry", zap.String("target", name), zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("bootstrap retries exhausted", zap.String("target", name), zap.Error(err))
			}
		},
	}
}
