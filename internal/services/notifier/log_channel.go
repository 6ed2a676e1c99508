package notifier

import (
	"context"

	"github.com/NordCoder/Pingwatch/internal/obs"
	"go.uber.org/zap"
)

// LogChannel writes notifications to the log. Useful in development when no
// chat or mail transport is configured.
type LogChannel struct {
	log *zap.Logger
}

func NewLogChannel(log *zap.Logger) *LogChannel {
	return &LogChannel{log: obs.Component(log, "notifier.log")}
}

func (l *LogChannel) Name() string { return "log" }

func (l *LogChannel) Notify(ctx context.Context, owner, text string) error {
	obs.WithTrace(ctx, l.log).Info("notification", zap.String("owner", owner), zap.String("text", text))
	return nil
}
