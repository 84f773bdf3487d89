// Package eventbus provides an in-process event bus for synchronous event delivery.
package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lllypuk/murmur/internal/domain/event"
)

// EventHandler is a function that handles domain events.
type EventHandler func(ctx context.Context, event event.DomainEvent) error

// MemoryEventBus implements event.Bus with an in-process handler registry.
// Publish invokes handlers synchronously in registration order, so the
// order of delivered events matches the order of the mutations that
// produced them. Handler errors are logged and never fail the publish.
type MemoryEventBus struct {
	handlers   map[string][]EventHandler
	handlersMu sync.RWMutex
	logger     *slog.Logger
}

// Option configures a MemoryEventBus.
type Option func(*MemoryEventBus)

// WithLogger sets the logger for the event bus.
func WithLogger(logger *slog.Logger) Option {
	return func(b *MemoryEventBus) {
		b.logger = logger
	}
}

// NewMemoryEventBus creates a new in-process event bus.
func NewMemoryEventBus(opts ...Option) *MemoryEventBus {
	b := &MemoryEventBus{
		handlers: make(map[string][]EventHandler),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Publish delivers a domain event to every handler subscribed to its type.
func (b *MemoryEventBus) Publish(ctx context.Context, evt event.DomainEvent) error {
	if evt == nil {
		return errors.New("event cannot be nil")
	}

	b.handlersMu.RLock()
	handlers := b.handlers[evt.EventType()]
	b.handlersMu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, evt); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				slog.String("event_type", evt.EventType()),
				slog.String("aggregate_id", evt.AggregateID()),
				slog.Any("error", err),
			)
		}
	}

	b.logger.DebugContext(ctx, "event published",
		slog.String("event_type", evt.EventType()),
		slog.String("aggregate_id", evt.AggregateID()),
		slog.Int("handlers", len(handlers)),
	)

	return nil
}

// Subscribe registers an event handler for a specific event type.
// The parameter uses the plain function type so consumer-side
// interfaces match without referencing EventHandler.
func (b *MemoryEventBus) Subscribe(
	eventType string,
	handler func(ctx context.Context, event event.DomainEvent) error,
) error {
	if eventType == "" {
		return errors.New("event type cannot be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	return nil
}
