package notification

import "context"

type Notifier interface {
	Notify(ctx context.Context, owner, text string) error
}

// Channel is a named Notifier; the name shows up in logs, metrics and
// DeliveryError.
type Channel interface {
	Notifier
	Name() string
}
