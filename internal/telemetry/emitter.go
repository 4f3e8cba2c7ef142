// Package telemetry emits operational events describing what the host did:
// commands executed, rooms opened and closed, narration outcomes.
//
// Emission is best-effort. A telemetry failure is logged and never surfaces
// into the command that produced it.
package telemetry

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/fableroom/internal/storage"
)

// Event kinds emitted by the host.
const (
	KindCommandExecuted   = "command.executed"
	KindCommandFailed     = "command.failed"
	KindRoomCreated       = "room.created"
	KindRoomDestroyed     = "room.destroyed"
	KindMatchStarted      = "match.started"
	KindMatchFinished     = "match.finished"
	KindNarrationServed   = "narration.served"
	KindNarrationFallback = "narration.fallback"
)

// Emitter appends telemetry events to a store.
type Emitter struct {
	store storage.TelemetryStore
	now   func() time.Time
}

// NewEmitter creates an emitter backed by store. A nil store yields a no-op
// emitter; a nil now defaults to time.Now.
func NewEmitter(store storage.TelemetryStore, now func() time.Time) *Emitter {
	if now == nil {
		now = time.Now
	}
	return &Emitter{store: store, now: now}
}

// Emit appends one event. Failures are logged, never returned.
func (e *Emitter) Emit(ctx context.Context, kind, roomID, playerID, detail string) {
	if e == nil || e.store == nil {
		return
	}
	err := e.store.AppendTelemetryEvent(ctx, storage.TelemetryEvent{
		Kind:       kind,
		RoomID:     roomID,
		PlayerID:   playerID,
		Detail:     detail,
		OccurredAt: e.now().UTC(),
	})
	if err != nil {
		log.Printf("telemetry: emit %s: %v", kind, err)
	}
}
