package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/NordCoder/Pingwatch/internal/domain/probe"
	"github.com/NordCoder/Pingwatch/internal/domain/watch"
	"github.com/NordCoder/Pingwatch/internal/obs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	ReplyWatched    = "Successfully added your link."
	ReplyBadStatus  = "You need to tell me if you want to watch for up or down or not!"
	ReplyBadURL     = "That doesn't look like a URL I can check."
	ReplyUnwatched  = "Successfully unwatched."
	ReplyListHeader = "Here's the URLs you're currently watching: \n"
	ReplyListEmpty  = "You're not watching any URLs yet."
	ReplyCleared    = "Stopped watching all of your URLs."
	ReplyFailure    = "Something went wrong on my side, please try again later."
)

type Service struct {
	Store watch.Repo
	Log   *zap.Logger
}

func New(store watch.Repo, log *zap.Logger) *Service {
	return &Service{Store: store, Log: obs.Component(log, "registry")}
}

// Handle runs cmd on behalf of owner and returns the reply to show them.
func (s *Service) Handle(ctx context.Context, owner string, cmd Command) string {
	switch c := cmd.(type) {
	case Help:
		return s.Help()
	case Watch:
		return s.Watch(ctx, owner, c.Status, c.URL)
	case Unwatch:
		return s.Unwatch(ctx, owner, c.URL)
	case List:
		return s.List(ctx, owner)
	case Clear:
		return s.Clear(ctx, owner)
	default:
		return s.Help()
	}
}

func (s *Service) Help() string {
	var b strings.Builder
	b.WriteString("These commands are supported:")
	for _, d := range Descriptions {
		b.WriteString("\n/")
		b.WriteString(d.Name)
		if d.Usage != "" {
			b.WriteString(" ")
			b.WriteString(d.Usage)
		}
		b.WriteString(" - ")
		b.WriteString(d.Text)
	}
	return b.String()
}

func (s *Service) Watch(ctx context.Context, owner, status, rawURL string) string {
	ctx, span := s.start(ctx, "registry.watch", owner)
	defer span.End()

	st, err := watch.ParseStatus(status)
	if err != nil {
		return ReplyBadStatus
	}
	url := watch.NormalizeURL(rawURL)
	if _, err := probe.ParseTarget(url); err != nil {
		obs.WithTrace(ctx, s.Log).Debug("rejected url", zap.String("owner", owner), zap.Error(err))
		return ReplyBadURL
	}

	id, err := s.Store.Create(ctx, owner, url, st)
	if err != nil {
		return s.failed(ctx, span, "watch", owner, err)
	}
	span.SetAttributes(attribute.Int64("watch.id", id))
	obs.WithTrace(ctx, s.Log).Info("watch added",
		zap.String("owner", owner), zap.Int64("watch_id", id), zap.String("url", url), zap.String("status", string(st)))
	return ReplyWatched
}

func (s *Service) Unwatch(ctx context.Context, owner, rawURL string) string {
	ctx, span := s.start(ctx, "registry.unwatch", owner)
	defer span.End()

	n, err := s.Store.Delete(ctx, owner, rawURL)
	if err != nil {
		return s.failed(ctx, span, "unwatch", owner, err)
	}
	obs.WithTrace(ctx, s.Log).Info("watch removed", zap.String("owner", owner), zap.Int64("removed", n))
	return ReplyUnwatched
}

func (s *Service) List(ctx context.Context, owner string) string {
	ctx, span := s.start(ctx, "registry.list", owner)
	defer span.End()

	watches, err := s.Store.ListByOwner(ctx, owner)
	if err != nil {
		return s.failed(ctx, span, "list", owner, err)
	}
	if len(watches) == 0 {
		return ReplyListEmpty
	}
	lines := make([]string, 0, len(watches))
	for _, w := range watches {
		lines = append(lines, fmt.Sprintf("ID %d: %s - checking for %s", w.ID, w.URL, w.Status))
	}
	return ReplyListHeader + strings.Join(lines, "\n")
}

func (s *Service) Clear(ctx context.Context, owner string) string {
	ctx, span := s.start(ctx, "registry.clear", owner)
	defer span.End()

	n, err := s.Store.Clear(ctx, owner)
	if err != nil {
		return s.failed(ctx, span, "clear", owner, err)
	}
	obs.WithTrace(ctx, s.Log).Info("watches cleared", zap.String("owner", owner), zap.Int64("removed", n))
	return ReplyCleared
}

func (s *Service) start(ctx context.Context, name, owner string) (context.Context, trace.Span) {
	return otel.Tracer("registry").Start(ctx, name, trace.WithAttributes(attribute.String("owner", owner)))
}

func (s *Service) failed(ctx context.Context, span trace.Span, op, owner string, err error) string {
	span.RecordError(err)
	obs.WithTrace(ctx, s.Log).Error("store failure", zap.String("op", op), zap.String("owner", owner), zap.Error(err))
	return ReplyFailure
}
