package telegram

import (
	"context"
	"fmt"
	"strconv"

	"github.com/NordCoder/Pingwatch/internal/domain/notification"
	tele "gopkg.in/telebot.v4"
)

const ChannelName = "telegram"

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier sends notifications as chat messages. Owners are chat ids.
type Notifier struct {
	sender sender
}

var _ notification.Channel = (*Notifier)(nil)

func (n *Notifier) Name() string { return ChannelName }

func (n *Notifier) Notify(ctx context.Context, owner, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chat, err := chatFor(owner)
	if err != nil {
		return err
	}
	_, err = n.sender.Send(chat, text, &tele.SendOptions{})
	return err
}

func chatFor(owner string) (*tele.Chat, error) {
	id, err := strconv.ParseInt(owner, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("owner %q is not a chat id: %w", owner, err)
	}
	return &tele.Chat{ID: id}, nil
}
