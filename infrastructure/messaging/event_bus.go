package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"treeforge/domain/events"
)

// AllEvents subscribes a handler to every event type
const AllEvents = "*"

// EventHandler processes domain events
type EventHandler interface {
	Handle(ctx context.Context, event events.DomainEvent) error
}

// EventHandlerFunc is an adapter to allow functions to be used as handlers
type EventHandlerFunc func(ctx context.Context, event events.DomainEvent) error

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return f(ctx, event)
}

// EventCounter counts published events by type
type EventCounter interface {
	IncEvent(eventType string)
}

// EventBus manages event subscriptions and publishing.
// This is a simple in-memory implementation suitable for single-instance deployments.
// Handlers run synchronously in subscription order.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	counter  EventCounter
	logger   *zap.Logger
}

// NewEventBus creates a new event bus instance. counter may be nil.
func NewEventBus(counter EventCounter, logger *zap.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		counter:  counter,
		logger:   logger,
	}
}

// Subscribe registers a handler for a specific event type, or AllEvents
func (eb *EventBus) Subscribe(eventType string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("Event handler subscribed",
		zap.String("event_type", eventType),
		zap.Int("total_handlers", len(eb.handlers[eventType])))
}

// Publish sends an event to all registered handlers.
// Errors from handlers are logged but don't stop other handlers from executing.
func (eb *EventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	eventType := event.GetEventType()

	eb.mu.RLock()
	handlers := make([]EventHandler, 0, len(eb.handlers[eventType])+len(eb.handlers[AllEvents]))
	handlers = append(handlers, eb.handlers[eventType]...)
	handlers = append(handlers, eb.handlers[AllEvents]...)
	eb.mu.RUnlock()

	eb.logger.Debug("Domain event published",
		zap.String("event_type", eventType),
		zap.String("aggregate_id", event.GetAggregateID()),
		zap.Int("version", event.GetVersion()),
	)
	if eb.counter != nil {
		eb.counter.IncEvent(eventType)
	}

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			eb.logger.Error("Event handler failed",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
		}
	}
	return nil
}

// PublishBatch publishes events in order
func (eb *EventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, event := range evts {
		if err := eb.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
