package watch

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

var ErrInvalidStatus = errors.New(`status must be "up" or "down"`)

// ParseStatus accepts exactly "up" or "down" once surrounding whitespace is
// trimmed. Matching is case-sensitive.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusUp, StatusDown:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) Valid() bool { return s == StatusUp || s == StatusDown }

// Matches reports whether a probe outcome is the one the watch is waiting for.
func (s Status) Matches(isUp bool) bool {
	switch s {
	case StatusUp:
		return isUp
	case StatusDown:
		return !isUp
	default:
		return false
	}
}

type Watch struct {
	ID     int64  `json:"id"`
	Owner  string `json:"owner"`
	URL    string `json:"url"`
	Status Status `json:"status"`
}

// NormalizeURL prepends http:// to input that carries no scheme. Input that
// already names a scheme, http or not, is only trimmed.
func NormalizeURL(s string) string {
	t := strings.TrimSpace(s)
	if t == "" || hasScheme(t) {
		return t
	}
	return "http://" + t
}

// hasScheme reports whether s starts with "scheme://", where scheme follows
// RFC 3986: a letter, then letters, digits, '+', '-' or '.'.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("watch store %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
