package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/NordCoder/Pingwatch/internal/services/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name  string
		args  []string
		cmd   registry.Command
		usage string
	}{
		{"help", nil, registry.Help{}, ""},
		{"start", nil, registry.Help{}, ""},
		{"watch", []string{"down", "example.com"}, registry.Watch{Status: "down", URL: "example.com"}, ""},
		{"watch", []string{"sideways", "example.com"}, registry.Watch{Status: "sideways", URL: "example.com"}, ""},
		{"watch", []string{"up"}, nil, usageWatch},
		{"watch", []string{"up", "a.com", "b.com"}, nil, usageWatch},
		{"unwatch", []string{"example.com"}, registry.Unwatch{URL: "example.com"}, ""},
		{"unwatch", nil, nil, usageUnwatch},
		{"list", nil, registry.List{}, ""},
		{"clear", []string{"ignored"}, registry.Clear{}, ""},
	}
	for _, tc := range cases {
		cmd, usage := parseCommand(tc.name, tc.args)
		assert.Equal(t, tc.cmd, cmd, tc.name)
		assert.Equal(t, tc.usage, usage, tc.name)
	}
}

type recordingHandler struct {
	owner string
	cmd   registry.Command
	ctx   context.Context
}

func (h *recordingHandler) Handle(ctx context.Context, owner string, cmd registry.Command) string {
	h.owner, h.cmd, h.ctx = owner, cmd, ctx
	return "ok"
}

func TestReply_ListDisablesPreview(t *testing.T) {
	h := &recordingHandler{}

	text, opts := reply(context.Background(), h, "42", "list", nil)
	assert.Equal(t, "ok", text)
	assert.True(t, opts.DisableWebPagePreview)
	assert.Equal(t, "42", h.owner)

	_, opts = reply(context.Background(), h, "42", "watch", []string{"up", "example.com"})
	assert.False(t, opts.DisableWebPagePreview)
	assert.Equal(t, registry.Watch{Status: "up", URL: "example.com"}, h.cmd)
}

func TestHandle_CommandsInheritRunContext(t *testing.T) {
	h := &recordingHandler{}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{h: h, base: ctx}

	b.handle("42", "list", nil)
	require.NotNil(t, h.ctx)
	assert.NoError(t, h.ctx.Err())

	cancel()
	b.handle("42", "clear", nil)
	assert.ErrorIs(t, h.ctx.Err(), context.Canceled)
}

func TestReply_UsageSkipsHandler(t *testing.T) {
	h := &recordingHandler{}
	text, _ := reply(context.Background(), h, "42", "unwatch", nil)
	assert.Equal(t, usageUnwatch, text)
	assert.Nil(t, h.cmd)
}

type fakeSender struct {
	to   tele.Recipient
	text interface{}
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	f.to, f.text = to, what
	return &tele.Message{}, f.err
}

func TestNotifier_SendsToChat(t *testing.T) {
	s := &fakeSender{}
	n := &Notifier{sender: s}

	require.NoError(t, n.Notify(context.Background(), "-1001234", "http://example.com is up!"))
	assert.Equal(t, "-1001234", s.to.Recipient())
	assert.Equal(t, "http://example.com is up!", s.text)
	assert.Equal(t, ChannelName, n.Name())
}

func TestNotifier_Errors(t *testing.T) {
	n := &Notifier{sender: &fakeSender{err: errors.New("forbidden: bot was blocked")}}
	assert.Error(t, n.Notify(context.Background(), "42", "x"))
	assert.Error(t, n.Notify(context.Background(), "not-a-chat", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, "42", "x"), context.Canceled)
}
