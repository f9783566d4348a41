package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"treeforge/domain/core/valueobjects"
	"treeforge/domain/events"
)

type countingCounter map[string]int

func (c countingCounter) IncEvent(eventType string) { c[eventType]++ }

func TestEventBus_Publish(t *testing.T) {
	counter := countingCounter{}
	bus := NewEventBus(counter, zap.NewNop())

	var typed, all []string
	bus.Subscribe(events.TypeNodeAdded, EventHandlerFunc(func(_ context.Context, e events.DomainEvent) error {
		typed = append(typed, e.GetEventType())
		return nil
	}))
	bus.Subscribe(AllEvents, EventHandlerFunc(func(_ context.Context, e events.DomainEvent) error {
		all = append(all, e.GetEventType())
		return nil
	}))

	now := time.Now()
	err := bus.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewNodeAdded("t1", 2, 1, valueobjects.Red, now),
		events.NewEdgeAdded("t1", 3, 2, 1, now),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{events.TypeNodeAdded}, typed)
	assert.Equal(t, []string{events.TypeNodeAdded, events.TypeEdgeAdded}, all)
	assert.Equal(t, 1, counter[events.TypeEdgeAdded])
}

func TestEventBus_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewEventBus(nil, zap.New(core))

	called := false
	bus.Subscribe(events.TypeTreeReset, EventHandlerFunc(func(context.Context, events.DomainEvent) error {
		return errors.New("boom")
	}))
	bus.Subscribe(events.TypeTreeReset, EventHandlerFunc(func(context.Context, events.DomainEvent) error {
		called = true
		return nil
	}))

	err := bus.Publish(context.Background(), events.NewTreeReset("t1", 4, 3, time.Now()))
	require.NoError(t, err)

	assert.True(t, called, "later handlers still run")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Event handler failed", logs.All()[0].Message)
}
