package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NordCoder/Pingwatch/internal/domain/probe"
	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_FirstCycleImmediateAndStopsOnCancel(t *testing.T) {
	lister := &fakeLister{watches: []*watch.Watch{
		{ID: 1, Owner: "a", URL: "http://down.example", Status: watch.StatusDown},
	}}
	rec := &recorder{}
	r := NewRunner(nil, NewUC(lister, fakeProber{}, rec, time.Second, 1, nil), time.Hour, prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(rec.Sent()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, r.Running())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
	assert.False(t, r.Running())
	assert.Equal(t, 1, lister.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(r.mCycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.mNotify.WithLabelValues("sent")))
}

func TestRunner_RetriesAfterListFailure(t *testing.T) {
	lister := &fakeLister{err: &watch.StorageError{Op: "list all", Err: errors.New("db gone")}}
	r := NewRunner(nil, NewUC(lister, fakeProber{}, &recorder{}, time.Second, 1, nil), 10*time.Millisecond, prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	require.Eventually(t, func() bool { return lister.Calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.GreaterOrEqual(t, testutil.ToFloat64(r.mCycleErr), 3.0)
}

type slowProber struct {
	started chan struct{}
	release chan struct{}
}

func (p slowProber) Probe(context.Context, string, time.Duration) (probe.Result, error) {
	close(p.started)
	<-p.release
	return probe.Unreachable, nil
}

func TestRunner_InFlightCycleCompletesAfterCancel(t *testing.T) {
	lister := &fakeLister{watches: []*watch.Watch{
		{ID: 1, Owner: "a", URL: "http://down.example", Status: watch.StatusDown},
	}}
	rec := &recorder{}
	p := slowProber{started: make(chan struct{}), release: make(chan struct{})}
	r := NewRunner(nil, NewUC(lister, p, rec, time.Second, 1, nil), time.Hour, prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	<-p.started
	cancel()
	close(p.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Len(t, rec.Sent(), 1)
}
