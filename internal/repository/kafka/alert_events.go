package kafka

import (
	"context"
	"time"

	"github.com/NordCoder/Pingwatch/internal/domain/notification"
)

const ChannelName = "kafka"

// AlertEvent is the JSON payload written for every notification.
type AlertEvent struct {
	Owner string    `json:"owner"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// AlertEvents publishes notifications to a topic keyed by owner, so one
// owner's alerts stay ordered within a partition.
type AlertEvents struct {
	p     *Producer
	clock notification.Clock
}

var _ notification.Channel = (*AlertEvents)(nil)

func NewAlertEvents(p *Producer, clock notification.Clock) *AlertEvents {
	if clock == nil {
		clock = systemClock{}
	}
	return &AlertEvents{p: p, clock: clock}
}

func (e *AlertEvents) Name() string { return ChannelName }

func (e *AlertEvents) Notify(ctx context.Context, owner, text string) error {
	return e.p.PublishJSON(ctx, []byte(owner), AlertEvent{
		Owner: owner,
		Text:  text,
		At:    e.clock.Now().UTC(),
	})
}
