// Package events provides a simple event bus for publish/subscribe patterns.
// The validation service announces finished runs on it; output, metrics,
// and the status server subscribe.
package events

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/tiger/domain/report"
	"github.com/artpar/tiger/domain/run"
)

// Event names.
const (
	ValidationStarted   = "validation.started"
	ValidationCompleted = "validation.completed"
	ValidationFailed    = "validation.failed"
	ConfigReloaded      = "config.reloaded"
	FilesChanged        = "watch.changed"
)

// Event represents a published event.
type Event struct {
	// Name is the event name (e.g., "validation.completed").
	Name string

	// Run summarizes the validation run, for validation events.
	Run run.Run

	// Diagnostics holds the sorted findings of a completed run.
	Diagnostics []report.Diagnostic

	// Paths lists the files that triggered a revalidation.
	Paths []string

	// Err is set on failure events.
	Err error
}

// Handler is a function that processes an event.
type Handler func(ctx context.Context, event Event) error

// Bus is a simple publish/subscribe event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   zerolog.Logger
}

// NewBus creates a new event bus.
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event.
// The handler will be called whenever the event is published.
// Supports wildcard subscriptions:
//   - "validation.completed" - exact match
//   - "validation.*" - all validation events
//   - "*" - all events
func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Publish emits an event to all matching handlers.
// Handlers are called synchronously in registration order.
// If any handler returns an error, publishing continues but errors are logged.
func (b *Bus) Publish(ctx context.Context, event Event) {
	matched := b.match(event.Name)

	b.logger.Debug().
		Str("event", event.Name).
		Int("handlers", len(matched)).
		Msg("event emitted")

	for _, handler := range matched {
		if err := handler(ctx, event); err != nil {
			b.logger.Error().
				Err(err).
				Str("event", event.Name).
				Msg("event handler error")
		}
	}
}

// HasSubscribers checks if any handlers are registered for an event.
func (b *Bus) HasSubscribers(event string) bool {
	return len(b.match(event)) > 0
}

// match collects exact, prefix-wildcard, then global handlers.
func (b *Bus) match(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var matched []Handler
	matched = append(matched, b.handlers[name]...)
	if prefix, _, ok := strings.Cut(name, "."); ok {
		matched = append(matched, b.handlers[prefix+".*"]...)
	}
	if name != "*" {
		matched = append(matched, b.handlers["*"]...)
	}
	return matched
}
