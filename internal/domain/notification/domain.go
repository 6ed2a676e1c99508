package notification

import (
	"fmt"
	"strings"
	"time"
)

type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Text renders the one-line message sent to the owner.
func Text(url, status string) string {
	return fmt.Sprintf("%s is %s!", url, strings.ToLower(status))
}

type Clock interface {
	Now() time.Time
}
