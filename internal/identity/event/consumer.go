package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.AnalysisCompletedEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

// AnalysisConsumer drains the bus with a fixed set of workers. Each event
// is handled at most once per EventID and retried with exponential backoff.
type AnalysisConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
}

func NewAnalysisConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *AnalysisConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := max(cfg.MaxRetries, 0)

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &AnalysisConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

func (c *AnalysisConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

// Stop closes the bus and waits for in-flight events to drain.
func (c *AnalysisConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *AnalysisConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *AnalysisConsumer) processEvent(event entity.AnalysisCompletedEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != "" {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate analysis event", "event_id", event.EventID, "analysis_id", event.AnalysisID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to handle analysis event after retries",
				"event_id", event.EventID, "analysis_id", event.AnalysisID, "error", err)
			return
		}

		sleepBackoff(backoff)
		backoff *= 2
	}
}

func sleepBackoff(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
}
