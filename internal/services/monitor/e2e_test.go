package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NordCoder/Pingwatch/internal/repository/sqlite"
	"github.com/NordCoder/Pingwatch/internal/services/registry"
	"github.com/NordCoder/Pingwatch/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newE2EStore(t *testing.T) *sqlite.WatchRepo {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), sqlite.Config{
		Path:         filepath.Join(t.TempDir(), "e2e.db"),
		BusyTimeout:  time.Second,
		QueryTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, migrations.Up(db.SQL, migrations.DialectSQLite))
	return sqlite.NewWatchRepo(db)
}

func TestWatchThroughRegistryThenCycle(t *testing.T) {
	store := newE2EStore(t)
	reg := registry.New(store, nil)
	ctx := context.Background()
	var err error

	require.Equal(t, registry.ReplyWatched, reg.Handle(ctx, "42", registry.Watch{Status: "down", URL: "example.com"}))

	rec := &recorder{}
	down := NewUC(store, fakeProber{}, rec, time.Second, 4, nil)
	_, err = down.Cycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []sent{{"42", "http://example.com is down!"}}, rec.Sent())

	rec = &recorder{}
	up := NewUC(store, fakeProber{up: map[string]bool{"http://example.com": true}}, rec, time.Second, 4, nil)
	_, err = up.Cycle(ctx)
	require.NoError(t, err)
	assert.Empty(t, rec.Sent())

	require.Equal(t, registry.ReplyCleared, reg.Handle(ctx, "42", registry.Clear{}))
	rec = &recorder{}
	down.Notifier = rec
	_, err = down.Cycle(ctx)
	require.NoError(t, err)
	assert.Empty(t, rec.Sent())
}

func TestRefusedConnectionNotifiesDownWatchOnce(t *testing.T) {
	store := newE2EStore(t)
	reg := registry.New(store, nil)
	ctx := context.Background()

	gone := httptest.NewServer(http.NotFoundHandler())
	goneHost := strings.TrimPrefix(gone.URL, "http://")
	gone.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	require.Equal(t, registry.ReplyWatched, reg.Handle(ctx, "42", registry.Watch{Status: "down", URL: goneHost}))
	require.Equal(t, registry.ReplyWatched, reg.Handle(ctx, "42", registry.Watch{Status: "down", URL: failing.URL}))

	rec := &recorder{}
	prober := NewHTTPProber(NewHTTPClient(HTTPConfig{FollowRedirects: true, VerifyTLS: true}), "pingwatch-test")
	st, err := NewUC(store, prober, rec, time.Second, 4, nil).Cycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, []sent{{"42", "http://" + goneHost + " is down!"}}, rec.Sent())
	assert.Equal(t, Stats{Watches: 2, Up: 1, Down: 1, Notified: 1}, st)
}
