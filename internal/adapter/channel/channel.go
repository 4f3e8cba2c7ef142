// Package channel implements an in-process adapter backed by Go channels.
// It serves tests and embedded frontends that feed events programmatically.
package channel

import (
	"context"
	"sync"

	"github.com/louisbranch/fableroom/internal/event"
)

// DefaultQueueSize bounds the inbound event queue.
const DefaultQueueSize = 256

// Adapter queues events in memory and collects outbound messages per player.
type Adapter struct {
	name   string
	inbox  chan event.Event
	mu     sync.Mutex
	outbox map[string][]string
}

// New creates a channel adapter with the default queue size.
func New(name string) *Adapter {
	return &Adapter{
		name:   name,
		inbox:  make(chan event.Event, DefaultQueueSize),
		outbox: make(map[string][]string),
	}
}

// Name identifies the adapter in logs.
func (a *Adapter) Name() string { return a.name }

// Start is a no-op; the adapter is live once constructed.
func (a *Adapter) Start(ctx context.Context) error { return nil }

// Stop is a no-op.
func (a *Adapter) Stop(ctx context.Context) error { return nil }

// Push queues an inbound event. It reports false when the queue is full.
func (a *Adapter) Push(evt event.Event) bool {
	select {
	case a.inbox <- evt:
		return true
	default:
		return false
	}
}

// Receive pops the next pending event, or nil when the queue is empty.
func (a *Adapter) Receive() *event.Event {
	select {
	case evt := <-a.inbox:
		return &evt
	default:
		return nil
	}
}

// Send records an outbound message in the recipient's outbox.
func (a *Adapter) Send(msg event.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outbox[msg.Recipient] = append(a.outbox[msg.Recipient], msg.Content)
	return nil
}

// MessagesFor returns a copy of the messages delivered to a player.
func (a *Adapter) MessagesFor(playerID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.outbox[playerID]...)
}

// Reset clears the outbox.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outbox = make(map[string][]string)
}
