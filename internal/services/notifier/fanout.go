package notifier

import (
	"context"
	"errors"

	"github.com/NordCoder/Pingwatch/internal/domain/notification"
	"github.com/NordCoder/Pingwatch/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// FanOut delivers every notification to all of its channels. A failing
// channel does not stop the others; failures come back as one error made of
// *notification.DeliveryError values.
type FanOut struct {
	channels []notification.Channel
	log      *zap.Logger

	mSent *prometheus.CounterVec
}

var _ notification.Notifier = (*FanOut)(nil)

func NewFanOut(log *zap.Logger, reg prometheus.Registerer, channels ...notification.Channel) *FanOut {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &FanOut{
		channels: channels,
		log:      obs.Component(log, "notifier"),
		mSent: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pingwatch_notifications_delivered_total", Help: "Notification deliveries by channel and outcome",
		}, []string{"channel", "outcome"}),
	}
}

func (f *FanOut) Notify(ctx context.Context, owner, text string) error {
	var errs []error
	for _, ch := range f.channels {
		if err := ch.Notify(ctx, owner, text); err != nil {
			f.mSent.WithLabelValues(ch.Name(), "failed").Inc()
			obs.WithTrace(ctx, f.log).Warn("delivery failed",
				zap.String("channel", ch.Name()), zap.String("owner", owner), zap.Error(err))
			errs = append(errs, &notification.DeliveryError{Channel: ch.Name(), Err: err})
			continue
		}
		f.mSent.WithLabelValues(ch.Name(), "sent").Inc()
	}
	return errors.Join(errs...)
}
