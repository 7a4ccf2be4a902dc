package identity

import (
	"context"
	"sync"

	id "pulseboard/pkg/domain"
)

// EventKind names the lifecycle events the identity provider emits.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventSaved   EventKind = "saved"
	EventDeleted EventKind = "deleted"
)

// Event is a single lifecycle notification. Delivery is at-least-once and
// unordered: a saved event may arrive before (or without) its created event,
// and any event may be redelivered. Subscribers must be idempotent.
type Event struct {
	Kind   EventKind `json:"event"`
	UserID id.UserID `json:"user_id"`
}

// Handler consumes lifecycle events. Returning an error signals the source to
// surface or retry the delivery; it must not be used for flow control.
type Handler interface {
	HandleIdentityEvent(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) HandleIdentityEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// EventSource is anything that can deliver lifecycle events to a handler.
// The in-process Emitter and the Kafka consumer both satisfy it, so the
// coordinator's subscription stays explicit and testable in isolation.
type EventSource interface {
	Subscribe(handler Handler)
}

// Emitter is a synchronous in-process event source. The in-memory identity
// store fires it directly; tests drive it to simulate duplicated or reordered
// deliveries.
type Emitter struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe registers a handler for all subsequent events.
func (e *Emitter) Subscribe(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// Emit delivers the event to every subscriber synchronously, in subscription
// order. The first handler error stops delivery and is returned.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		if err := h.HandleIdentityEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
