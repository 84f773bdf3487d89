// Package websocket provides the WebSocket push channel for real-time updates.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/lllypuk/murmur/internal/domain/event"
	messagedomain "github.com/lllypuk/murmur/internal/domain/message"
)

// EventBus defines the interface for subscribing to domain events.
// Declared on the consumer side.
type EventBus interface {
	// Subscribe registers an event handler for a specific event type.
	Subscribe(eventType string, handler func(ctx context.Context, event event.DomainEvent) error) error
}

// Broadcaster listens to the event bus and fans mutations out to every
// WebSocket session as delta envelopes. The bus delivers events in
// mutation order, so the delta stream observed by a session matches
// the order of the log.
type Broadcaster struct {
	hub      *Hub
	eventBus EventBus
	logger   *slog.Logger

	// running indicates if the broadcaster is active.
	running bool

	// runningMu protects the running flag.
	runningMu sync.RWMutex
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithBroadcasterLogger sets the logger for the broadcaster.
func WithBroadcasterLogger(logger *slog.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(hub *Hub, eventBus EventBus, opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		hub:      hub,
		eventBus: eventBus,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Start subscribes to the event bus. It registers handlers but doesn't block.
func (b *Broadcaster) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return nil
	}
	b.running = true
	b.runningMu.Unlock()

	eventTypes := []string{
		messagedomain.EventTypeMessageCreated,
		messagedomain.EventTypeReactionAdded,
	}

	for _, eventType := range eventTypes {
		if err := b.eventBus.Subscribe(eventType, func(handlerCtx context.Context, evt event.DomainEvent) error {
			return b.handleEvent(handlerCtx, evt)
		}); err != nil {
			b.logger.ErrorContext(ctx, "failed to subscribe to event",
				slog.String("event_type", eventType),
				slog.String("error", err.Error()),
			)
			return err
		}
	}

	b.logger.InfoContext(ctx, "websocket broadcaster started")

	return nil
}

// IsRunning returns whether the broadcaster is running.
func (b *Broadcaster) IsRunning() bool {
	b.runningMu.RLock()
	defer b.runningMu.RUnlock()
	return b.running
}

// handleEvent transforms a domain event into a delta envelope and hands
// it to the hub. Delivery failures of individual sessions are handled
// inside the hub and never propagate back to the mutation.
func (b *Broadcaster) handleEvent(ctx context.Context, evt event.DomainEvent) error {
	envelope := b.transformEvent(evt)
	if envelope == nil {
		b.logger.DebugContext(ctx, "event not routable",
			slog.String("event_type", evt.EventType()),
		)
		return nil
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		b.logger.ErrorContext(ctx, "failed to marshal delta envelope",
			slog.String("event_type", evt.EventType()),
			slog.String("error", err.Error()),
		)
		return err
	}

	b.hub.Broadcast(data)

	b.logger.DebugContext(ctx, "delta broadcast",
		slog.String("event_type", evt.EventType()),
		slog.String("aggregate_id", evt.AggregateID()),
	)

	return nil
}

// transformEvent converts a domain event to a wire envelope.
func (b *Broadcaster) transformEvent(evt event.DomainEvent) any {
	switch e := evt.(type) {
	case *messagedomain.Created:
		return NewChatEnvelope(e.Message)
	case *messagedomain.ReactionAdded:
		return NewReactionEnvelope(e.Tally)
	default:
		return nil
	}
}
