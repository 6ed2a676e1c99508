package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Pingwatch/internal/domain/notification"
	"github.com/NordCoder/Pingwatch/internal/domain/probe"
	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/NordCoder/Pingwatch/internal/obs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WatchLister is the slice of the watch store the monitor reads.
type WatchLister interface {
	ListAll(ctx context.Context) ([]*watch.Watch, error)
}

type Stats struct {
	Watches        int
	Up             int
	Down           int
	Notified       int
	ProbeErrors    int
	DeliveryErrors int
}

type outcome int

const (
	outcomeDown outcome = iota
	outcomeUp
	outcomeProbeError
)

type watchResult struct {
	outcome      outcome
	notified     bool
	deliveryFail bool
}

type Usecase struct {
	Watches      WatchLister
	Prober       probe.Prober
	Notifier     notification.Notifier
	ProbeTimeout time.Duration
	Concurrency  int
	Log          *zap.Logger
}

func NewUC(watches WatchLister, prober probe.Prober, notifier notification.Notifier, probeTimeout time.Duration, concurrency int, log *zap.Logger) *Usecase {
	return &Usecase{
		Watches:      watches,
		Prober:       prober,
		Notifier:     notifier,
		ProbeTimeout: probeTimeout,
		Concurrency:  concurrency,
		Log:          obs.Component(log, "monitor.uc"),
	}
}

// Cycle loads every watch, probes each one and notifies its owner when the
// observed state matches the desired one. A store failure abandons the cycle;
// failures for a single watch are counted and never stop the others.
func (u *Usecase) Cycle(ctx context.Context) (Stats, error) {
	tr := otel.Tracer("monitor.uc")
	ctx, span := tr.Start(ctx, "monitor.cycle")
	defer span.End()

	watches, err := u.Watches.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list watches")
		return Stats{}, fmt.Errorf("list watches: %w", err)
	}
	span.SetAttributes(attribute.Int("cycle.watches", len(watches)))

	limit := u.Concurrency
	if limit <= 0 {
		limit = 16
	}

	results := make([]watchResult, len(watches))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, w := range watches {
		g.Go(func() error {
			results[i] = u.check(ctx, tr, w)
			return nil
		})
	}
	_ = g.Wait()

	st := Stats{Watches: len(watches)}
	for _, r := range results {
		switch r.outcome {
		case outcomeUp:
			st.Up++
		case outcomeDown:
			st.Down++
		case outcomeProbeError:
			st.ProbeErrors++
		}
		if r.notified {
			st.Notified++
		}
		if r.deliveryFail {
			st.DeliveryErrors++
		}
	}

	span.SetAttributes(
		attribute.Int("cycle.up", st.Up),
		attribute.Int("cycle.down", st.Down),
		attribute.Int("cycle.notified", st.Notified),
		attribute.Int("cycle.probe_errors", st.ProbeErrors),
		attribute.Int("cycle.delivery_errors", st.DeliveryErrors),
	)
	return st, nil
}

func (u *Usecase) check(ctx context.Context, tr trace.Tracer, w *watch.Watch) watchResult {
	ctx, span := tr.Start(ctx, "monitor.watch",
		trace.WithAttributes(
			attribute.Int64("watch.id", w.ID),
			attribute.String("watch.url", w.URL),
			attribute.String("watch.status", string(w.Status)),
		),
	)
	defer span.End()
	log := obs.WithTrace(ctx, u.Log).With(zap.Int64("watch_id", w.ID), zap.String("url", w.URL))

	res, err := u.Prober.Probe(ctx, w.URL, u.ProbeTimeout)
	if err != nil {
		span.RecordError(err)
		var pe *probe.Error
		if errors.As(err, &pe) {
			log.Warn("watch url cannot be probed", zap.Error(err))
		} else {
			log.Error("probe failed", zap.Error(err))
		}
		return watchResult{outcome: outcomeProbeError}
	}

	out := watchResult{outcome: outcomeDown}
	if res.IsUp() {
		out.outcome = outcomeUp
	}
	span.SetAttributes(attribute.String("probe.result", res.String()))

	if !w.Status.Matches(res.IsUp()) {
		return out
	}

	if err := u.Notifier.Notify(ctx, w.Owner, notification.Text(w.URL, string(w.Status))); err != nil {
		span.RecordError(err)
		log.Warn("notification not delivered", zap.String("owner", w.Owner), zap.Error(err))
		out.deliveryFail = true
		return out
	}
	log.Debug("owner notified", zap.String("owner", w.Owner), zap.String("status", string(w.Status)))
	out.notified = true
	return out
}
