// Package storage defines the persistence interfaces of the session host:
// scenario documents, user records, and operational telemetry.
//
// Live room and match state is deliberately not persisted; it is in-memory
// and best-effort per the single-authority design.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/fableroom/internal/errors"
	"github.com/louisbranch/fableroom/internal/scenario"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ScenarioStore persists scenario documents keyed by id.
type ScenarioStore interface {
	PutScenario(ctx context.Context, s scenario.Scenario) error
	GetScenario(ctx context.Context, id string) (scenario.Scenario, error)
	ListScenarios(ctx context.Context) ([]scenario.Scenario, error)
}

// UserRecord tracks a player identity seen by the host.
type UserRecord struct {
	ID          string
	Name        string
	FirstSeenAt time.Time
	LastSeenAt  time.Time
}

// UserStore persists user records keyed by player id.
type UserStore interface {
	// UpsertUser creates the record or refreshes its name and last-seen
	// stamp, preserving the first-seen stamp.
	UpsertUser(ctx context.Context, user UserRecord) error
	GetUser(ctx context.Context, id string) (UserRecord, error)
}

// TelemetryEvent is one operational event appended by the emitter.
type TelemetryEvent struct {
	Kind       string
	RoomID     string
	PlayerID   string
	Detail     string
	OccurredAt time.Time
}

// TelemetryStore appends operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}

// Store combines the persistence interfaces a runtime needs.
type Store interface {
	ScenarioStore
	UserStore
	TelemetryStore
}
