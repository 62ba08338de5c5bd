package eventbus

import (
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// InMemoryBus fans registration, status and fraud events out to the
// moderator bot. Each handler runs in its own goroutine.
type InMemoryBus struct {
	log            zerolog.Logger
	handlerTimeout time.Duration
	subscribers    map[string][]ports.EventHandler
	mu             sync.RWMutex
	inflight       sync.WaitGroup
}

var _ ports.EventBus = (*InMemoryBus)(nil)

// NewInMemoryBus creates an empty bus. A zero handlerTimeout means handlers
// run without a deadline.
func NewInMemoryBus(baseLogger *zerolog.Logger, handlerTimeout time.Duration) *InMemoryBus {
	return &InMemoryBus{
		log:            baseLogger.With().Str("component", "event_bus").Logger(),
		handlerTimeout: handlerTimeout,
		subscribers:    make(map[string][]ports.EventHandler),
	}
}

// Publish never blocks on handlers. They get a fresh context so a finished
// HTTP request does not cancel the moderator notification it triggered.
func (b *InMemoryBus) Publish(_ context.Context, topic string, data interface{}) error {
	b.mu.RLock()
	handlers := b.subscribers[topic]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Published event with no subscribers")
		return nil
	}

	event := ports.Event{Topic: topic, Data: data}
	for _, handler := range handlers {
		b.inflight.Add(1)
		go b.dispatch(handler, event)
	}

	b.log.Debug().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

func (b *InMemoryBus) dispatch(h ports.EventHandler, event ports.Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("topic", event.Topic).Str("panic", fmt.Sprint(r)).Msg("Event handler panicked")
		}
	}()

	ctx := context.Background()
	if b.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.handlerTimeout)
		defer cancel()
	}

	if err := h(ctx, event); err != nil {
		b.log.Error().Err(err).Str("topic", event.Topic).Msg("Event handler failed")
	}
}

// Subscribe registers a handler for a topic.
func (b *InMemoryBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Info().Str("topic", topic).Msg("Handler subscribed")
}

// Drain waits for running handlers, or until ctx is done.
func (b *InMemoryBus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
