package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/storage/memory"
)

func TestEmitAppendsEvent(t *testing.T) {
	store := memory.NewStore()
	fixed := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	emitter := NewEmitter(store, func() time.Time { return fixed })

	emitter.Emit(context.Background(), KindCommandExecuted, "r1", "p1", "PLAYER_ACTION")

	events := store.TelemetryEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Kind != KindCommandExecuted || got.RoomID != "r1" || got.PlayerID != "p1" {
		t.Fatalf("unexpected event %+v", got)
	}
	if !got.OccurredAt.Equal(fixed) {
		t.Fatalf("expected injected clock stamp, got %v", got.OccurredAt)
	}
}

type failingStore struct{}

func (failingStore) AppendTelemetryEvent(context.Context, storage.TelemetryEvent) error {
	return errors.New("disk full")
}

func TestEmitSwallowsStoreErrors(t *testing.T) {
	emitter := NewEmitter(failingStore{}, nil)
	// Must not panic or propagate.
	emitter.Emit(context.Background(), KindCommandFailed, "", "", "boom")
}

func TestNilEmitterIsSafe(t *testing.T) {
	var emitter *Emitter
	emitter.Emit(context.Background(), KindRoomCreated, "r1", "", "")
}
