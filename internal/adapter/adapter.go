// Package adapter defines the transport contract between external chat
// surfaces and the coordinator. An adapter turns platform traffic into game
// events and delivers outbound messages back to players.
package adapter

import (
	"context"

	"github.com/louisbranch/fableroom/internal/event"
)

// Adapter is one chat surface attached to the coordinator.
//
// Receive must not block: it returns the next pending event or nil when the
// queue is empty. Send is best-effort; delivery to a disconnected player is
// not an error.
type Adapter interface {
	// Name identifies the adapter in logs.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Receive() *event.Event
	Send(msg event.Message) error
}
