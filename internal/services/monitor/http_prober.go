package monitor

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/NordCoder/Pingwatch/internal/domain/probe"
)

var _ probe.Prober = (*HTTPProber)(nil)

const maxDrain = 4 << 10

type HTTPProber struct {
	Client    *http.Client
	UserAgent string
}

func NewHTTPProber(client *http.Client, userAgent string) *HTTPProber {
	if client == nil {
		client = NewHTTPClient(HTTPConfig{FollowRedirects: true, VerifyTLS: true})
	}
	return &HTTPProber{Client: client, UserAgent: userAgent}
}

// Probe issues one GET. Any response counts as reachable whatever its
// status code; transport failures and timeouts are Unreachable with a nil
// error. Only input that cannot be requested yields a *probe.Error.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string, timeout time.Duration) (probe.Result, error) {
	target, err := probe.ParseTarget(rawURL)
	if err != nil {
		return probe.Unreachable, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return probe.Unreachable, &probe.Error{URL: rawURL, Err: err}
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return probe.Unreachable, nil
	}
	// drain a little so the connection can go back to the pool
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	_ = resp.Body.Close()
	return probe.Reachable, nil
}
