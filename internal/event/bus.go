package event

import (
	"context"
	"log"
	"sync"
)

// Handler observes one event type. Handlers run in registration order and
// return results that the bus flattens into the publish result list.
type Handler func(ctx context.Context, evt Event) ([]Result, error)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a single-process publish/subscribe dispatcher keyed by event type.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Type][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]subscription)}
}

// Subscribe registers a handler for one event type and returns a token for
// Unsubscribe. Handlers for the same type are invoked in registration order.
func (b *Bus) Subscribe(eventType Type, handler Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[eventType] = append(b.subs[eventType], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes a previously registered handler. Unknown tokens are
// ignored.
func (b *Bus) Unsubscribe(eventType Type, token int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[eventType]
	for i, sub := range subs {
		if sub.id == token {
			b.subs[eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish dispatches the event to every handler subscribed to its type, in
// registration order, and returns their flattened results. A handler error
// is logged and does not stop the remaining handlers. A type with no
// subscribers yields an empty list.
func (b *Bus) Publish(ctx context.Context, evt Event) []Result {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[evt.Type]...)
	b.mu.Unlock()

	if len(subs) == 0 {
		log.Printf("bus: no observers for %s", evt.Type)
		return nil
	}

	var combined []Result
	for _, sub := range subs {
		results, err := sub.handler(ctx, evt)
		if err != nil {
			log.Printf("bus: observer for %s failed: %v", evt.Type, err)
			continue
		}
		combined = append(combined, results...)
	}
	return combined
}
