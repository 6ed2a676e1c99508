package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NordCoder/Pingwatch/internal/domain/probe"
	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	watches []*watch.Watch
	err     error
	calls   int
	mu      sync.Mutex
}

func (f *fakeLister) ListAll(context.Context) ([]*watch.Watch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.watches, f.err
}

func (f *fakeLister) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeProber struct {
	up     map[string]bool
	broken map[string]bool
}

func (p fakeProber) Probe(_ context.Context, url string, _ time.Duration) (probe.Result, error) {
	if p.broken[url] {
		return probe.Unreachable, &probe.Error{URL: url, Err: errors.New("bad url")}
	}
	if p.up[url] {
		return probe.Reachable, nil
	}
	return probe.Unreachable, nil
}

type sent struct{ owner, text string }

type recorder struct {
	mu   sync.Mutex
	msgs []sent
	fail map[string]bool
}

func (r *recorder) Notify(_ context.Context, owner, text string) error {
	if r.fail[owner] {
		return errors.New("chat blocked")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, sent{owner, text})
	return nil
}

func (r *recorder) Sent() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.msgs...)
}

func TestCycle_NotifiesOnlyOnMatch(t *testing.T) {
	lister := &fakeLister{watches: []*watch.Watch{
		{ID: 1, Owner: "a", URL: "http://up.example", Status: watch.StatusUp},
		{ID: 2, Owner: "b", URL: "http://up.example", Status: watch.StatusDown},
		{ID: 3, Owner: "c", URL: "http://down.example", Status: watch.StatusDown},
		{ID: 4, Owner: "d", URL: "http://down.example", Status: watch.StatusUp},
	}}
	rec := &recorder{}
	uc := NewUC(lister, fakeProber{up: map[string]bool{"http://up.example": true}}, rec, time.Second, 2, nil)

	st, err := uc.Cycle(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []sent{
		{"a", "http://up.example is up!"},
		{"c", "http://down.example is down!"},
	}, rec.Sent())
	assert.Equal(t, Stats{Watches: 4, Up: 2, Down: 2, Notified: 2}, st)
}

func TestCycle_ProbeErrorIsIsolated(t *testing.T) {
	lister := &fakeLister{watches: []*watch.Watch{
		{ID: 1, Owner: "a", URL: "http://broken", Status: watch.StatusDown},
		{ID: 2, Owner: "b", URL: "http://gone.example", Status: watch.StatusDown},
	}}
	rec := &recorder{}
	uc := NewUC(lister, fakeProber{broken: map[string]bool{"http://broken": true}}, rec, time.Second, 4, nil)

	st, err := uc.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []sent{{"b", "http://gone.example is down!"}}, rec.Sent())
	assert.Equal(t, 1, st.ProbeErrors)
	assert.Equal(t, 1, st.Notified)
}

func TestCycle_DeliveryFailureIsCounted(t *testing.T) {
	lister := &fakeLister{watches: []*watch.Watch{
		{ID: 1, Owner: "blocked", URL: "http://x.example", Status: watch.StatusDown},
		{ID: 2, Owner: "ok", URL: "http://x.example", Status: watch.StatusDown},
	}}
	rec := &recorder{fail: map[string]bool{"blocked": true}}
	uc := NewUC(lister, fakeProber{}, rec, time.Second, 4, nil)

	st, err := uc.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []sent{{"ok", "http://x.example is down!"}}, rec.Sent())
	assert.Equal(t, 1, st.DeliveryErrors)
	assert.Equal(t, 1, st.Notified)
}

func TestCycle_ListFailureAbandonsCycle(t *testing.T) {
	storeErr := &watch.StorageError{Op: "list all", Err: errors.New("connection reset")}
	rec := &recorder{}
	uc := NewUC(&fakeLister{err: storeErr}, fakeProber{}, rec, time.Second, 4, nil)

	_, err := uc.Cycle(context.Background())
	require.ErrorIs(t, err, storeErr)
	assert.True(t, watch.IsStorageError(err))
	assert.Empty(t, rec.Sent())
}

func TestCycle_RepeatsWhileConditionHolds(t *testing.T) {
	lister := &fakeLister{watches: []*watch.Watch{
		{ID: 1, Owner: "a", URL: "http://down.example", Status: watch.StatusDown},
	}}
	rec := &recorder{}
	uc := NewUC(lister, fakeProber{}, rec, time.Second, 1, nil)

	for i := 0; i < 3; i++ {
		_, err := uc.Cycle(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, rec.Sent(), 3)
}
