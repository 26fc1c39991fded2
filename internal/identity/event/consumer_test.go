package event

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/unified"
)

type handlerFunc func(ctx context.Context, event entity.AnalysisCompletedEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.AnalysisCompletedEvent) error {
	return h(ctx, event)
}

func TestAnalysisConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.AnalysisCompletedEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	consumer := NewAnalysisConsumer(bus, handler, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.AnalysisCompletedEvent{EventID: "evt-1", AnalysisID: unified.FromRaw(8)}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(0)
	bus.Close()
	bus.Close()

	err := bus.Publish(context.Background(), entity.AnalysisCompletedEvent{EventID: "x"})
	if !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishHonoursContext(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.AnalysisCompletedEvent{EventID: "a"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bus.Publish(ctx, entity.AnalysisCompletedEvent{EventID: "b"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestImbalanceAlerter(t *testing.T) {
	var buf bytes.Buffer
	alerter := ImbalanceAlerter{
		Threshold: 10,
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
	}

	if err := alerter.Handle(context.Background(), entity.AnalysisCompletedEvent{}); err == nil {
		t.Fatal("expected error for missing event id")
	}

	err := alerter.Handle(context.Background(), entity.AnalysisCompletedEvent{EventID: "ok", Spread: 2.5})
	if err != nil {
		t.Fatalf("handle balanced: %v", err)
	}
	if !strings.Contains(buf.String(), "level=INFO") {
		t.Fatalf("expected info log, got %q", buf.String())
	}

	buf.Reset()
	err = alerter.Handle(context.Background(), entity.AnalysisCompletedEvent{EventID: "skewed", Spread: 42})
	if err != nil {
		t.Fatalf("handle skewed: %v", err)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "threshold=10") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}
