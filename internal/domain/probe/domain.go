package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Result int

const (
	Unreachable Result = iota
	Reachable
)

func (r Result) String() string {
	if r == Reachable {
		return "reachable"
	}
	return "unreachable"
}

func (r Result) IsUp() bool { return r == Reachable }

// Error is returned only for input that cannot be probed at all. Timeouts and
// refused connections are Unreachable results, not errors.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("probe %q: %v", e.URL, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrScheme    = errors.New("scheme must be http or https")
	ErrEmptyHost = errors.New("empty host")
)

// ParseTarget checks that raw is something a prober can request: it must
// parse, use http or https and name a host.
func ParseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{URL: raw, Err: err}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, &Error{URL: raw, Err: ErrScheme}
	}
	if u.Hostname() == "" {
		return nil, &Error{URL: raw, Err: ErrEmptyHost}
	}
	return u, nil
}

type Prober interface {
	Probe(ctx context.Context, url string, timeout time.Duration) (Result, error)
}
