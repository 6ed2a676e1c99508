package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestAlertEvents_PublishesKeyedJSONWithTraceHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTracerProvider(tp)

	w := &captureWriter{}
	p := &Producer{w: w, topic: "pingwatch.alerts", log: zap.NewNop()}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	events := NewAlertEvents(p, fixedClock(at))

	ctx, span := tp.Tracer("test").Start(context.Background(), "cycle")
	require.NoError(t, events.Notify(ctx, "42", "http://example.com is down!"))
	span.End()

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))

	var ev AlertEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "42", ev.Owner)
	assert.Equal(t, "http://example.com is down!", ev.Text)
	assert.True(t, at.Equal(ev.At))

	var traceparent string
	for _, h := range msg.Headers {
		if h.Key == "traceparent" {
			traceparent = string(h.Value)
		}
	}
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
	assert.Equal(t, ChannelName, events.Name())
}

func TestAlertEvents_WriteFailure(t *testing.T) {
	boom := errors.New("broker down")
	p := &Producer{w: &captureWriter{err: boom}, topic: "t", log: zap.NewNop()}

	err := NewAlertEvents(p, nil).Notify(context.Background(), "42", "x is up!")
	assert.ErrorIs(t, err, boom)
}

func TestEnsureTopic_NoBrokers(t *testing.T) {
	err := EnsureTopic(context.Background(), nil, TopicSpec{Name: "t"}, nil)
	assert.Error(t, err)
}
