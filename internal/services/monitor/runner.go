package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/NordCoder/Pingwatch/internal/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const DefaultInterval = 120 * time.Second

type Runner struct {
	Log      *zap.Logger
	UC       *Usecase
	Interval time.Duration

	running atomic.Bool

	mCycles    prometheus.Counter
	mCycleErr  prometheus.Counter
	mWatches   prometheus.Counter
	mResults   *prometheus.CounterVec
	mNotify    *prometheus.CounterVec
	mCycleDur  prometheus.Histogram
	mLastCycle prometheus.Gauge
}

func NewRunner(log *zap.Logger, uc *Usecase, interval time.Duration, reg prometheus.Registerer) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Runner{
		Log:      obs.Component(log, "monitor.runner"),
		UC:       uc,
		Interval: interval,
		mCycles: f.NewCounter(prometheus.CounterOpts{
			Name: "pingwatch_monitor_cycles_total", Help: "Completed monitor cycles",
		}),
		mCycleErr: f.NewCounter(prometheus.CounterOpts{
			Name: "pingwatch_monitor_cycle_errors_total", Help: "Cycles abandoned because watches could not be loaded",
		}),
		mWatches: f.NewCounter(prometheus.CounterOpts{
			Name: "pingwatch_monitor_watches_checked_total", Help: "Watches processed across all cycles",
		}),
		mResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pingwatch_monitor_probe_results_total", Help: "Probe outcomes",
		}, []string{"result"}),
		mNotify: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pingwatch_monitor_notifications_total", Help: "Notification attempts by outcome",
		}, []string{"outcome"}),
		mCycleDur: f.NewHistogram(prometheus.HistogramOpts{
			Name: "pingwatch_monitor_cycle_duration_seconds", Help: "Monitor cycle duration",
			Buckets: prometheus.DefBuckets,
		}),
		mLastCycle: f.NewGauge(prometheus.GaugeOpts{
			Name: "pingwatch_monitor_last_cycle_timestamp_seconds", Help: "Unix time the last cycle finished",
		}),
	}
}

// Running reports whether Run is active.
func (r *Runner) Running() bool { return r.running.Load() }

// Run performs a cycle immediately and then one per interval until ctx is
// cancelled. A cycle in flight when ctx is cancelled is allowed to finish.
func (r *Runner) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	r.Log.Info("monitor started", zap.Duration("interval", r.Interval))

	for {
		r.cycle(context.WithoutCancel(ctx))

		t := time.NewTimer(r.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			r.Log.Info("monitor stopped")
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	start := time.Now()
	defer func() {
		r.mCycleDur.Observe(time.Since(start).Seconds())
		r.mLastCycle.SetToCurrentTime()
	}()

	st, err := r.UC.Cycle(ctx)
	if err != nil {
		r.mCycleErr.Inc()
		r.Log.Warn("cycle abandoned", zap.Error(err))
		return
	}
	r.mCycles.Inc()
	r.mWatches.Add(float64(st.Watches))
	r.mResults.WithLabelValues("up").Add(float64(st.Up))
	r.mResults.WithLabelValues("down").Add(float64(st.Down))
	r.mResults.WithLabelValues("error").Add(float64(st.ProbeErrors))
	r.mNotify.WithLabelValues("sent").Add(float64(st.Notified))
	r.mNotify.WithLabelValues("failed").Add(float64(st.DeliveryErrors))

	r.Log.Debug("cycle done",
		zap.Int("watches", st.Watches),
		zap.Int("notified", st.Notified),
		zap.Int("probe_errors", st.ProbeErrors),
		zap.Int("delivery_errors", st.DeliveryErrors),
		zap.Duration("elapsed", time.Since(start)),
	)
}
