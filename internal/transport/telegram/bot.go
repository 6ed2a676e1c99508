package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/NordCoder/Pingwatch/internal/obs"
	"github.com/NordCoder/Pingwatch/internal/services/registry"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

type Config struct {
	Token       string
	PollTimeout time.Duration
}

type Handler interface {
	Handle(ctx context.Context, owner string, cmd registry.Command) string
}

// Bot receives slash commands over long polling and answers them through the
// registry. Updates are handled concurrently, each on its own goroutine.
type Bot struct {
	bot *tele.Bot
	h   Handler
	log *zap.Logger

	// base is the Run context; commands inherit its cancellation.
	base context.Context
}

func New(cfg Config, h Handler, log *zap.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	log = obs.Component(log, "telegram")
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
		OnError: func(err error, c tele.Context) {
			log.Warn("telegram handler error", zap.Error(err))
		},
	})
	if err != nil {
		return nil, err
	}
	bt := &Bot{bot: b, h: h, log: log, base: context.Background()}
	bt.routes()
	return bt, nil
}

func (b *Bot) routes() {
	for _, d := range registry.Descriptions {
		name := d.Name
		b.bot.Handle("/"+name, func(c tele.Context) error {
			return b.answer(c, name)
		})
	}
	b.bot.Handle("/start", func(c tele.Context) error {
		return b.answer(c, "start")
	})
}

func (b *Bot) answer(c tele.Context, name string) error {
	if c.Chat() == nil {
		return nil
	}
	owner := strconv.FormatInt(c.Chat().ID, 10)
	text, opts := b.handle(owner, name, c.Args())
	b.log.Debug("command", zap.String("owner", owner), zap.String("command", name))
	return c.Send(text, opts)
}

func (b *Bot) handle(owner, name string, args []string) (string, *tele.SendOptions) {
	ctx := b.base
	if ctx == nil {
		ctx = context.Background()
	}
	return reply(ctx, b.h, owner, name, args)
}

// reply runs one command for owner and returns the answer with its send
// options. List answers are sent without link previews.
func reply(ctx context.Context, h Handler, owner, name string, args []string) (string, *tele.SendOptions) {
	opts := &tele.SendOptions{}
	cmd, usage := parseCommand(name, args)
	if cmd == nil {
		return usage, opts
	}
	if _, ok := cmd.(registry.List); ok {
		opts.DisableWebPagePreview = true
	}
	return h.Handle(ctx, owner, cmd), opts
}

// Run polls until ctx is cancelled. Commands still running then see ctx
// cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.base = ctx
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.log.Info("polling started")
	b.bot.Start()
	b.log.Info("polling stopped")
	return nil
}

// Notifier returns a notification channel that messages owners through this
// bot.
func (b *Bot) Notifier() *Notifier { return &Notifier{sender: b.bot} }
