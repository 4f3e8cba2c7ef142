// Package memory provides an in-memory storage implementation used by tests
// and by hosts running without a database path.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/fableroom/internal/scenario"
	"github.com/louisbranch/fableroom/internal/storage"
)

// Store is an in-memory implementation of storage.Store.
type Store struct {
	mu        sync.Mutex
	scenarios map[string]scenario.Scenario
	users     map[string]storage.UserRecord
	telemetry []storage.TelemetryEvent
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		scenarios: make(map[string]scenario.Scenario),
		users:     make(map[string]storage.UserRecord),
	}
}

// PutScenario stores a scenario document, replacing any previous version.
func (s *Store) PutScenario(_ context.Context, sc scenario.Scenario) error {
	normalized, err := scenario.Normalize(sc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[normalized.ID] = normalized
	return nil
}

// GetScenario loads a scenario document by id.
func (s *Store) GetScenario(_ context.Context, id string) (scenario.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scenarios[id]
	if !ok {
		return scenario.Scenario{}, storage.ErrNotFound
	}
	return sc, nil
}

// ListScenarios loads all scenario documents ordered by id.
func (s *Store) ListScenarios(_ context.Context) ([]scenario.Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.scenarios))
	for id := range s.scenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	scenarios := make([]scenario.Scenario, 0, len(ids))
	for _, id := range ids {
		scenarios = append(scenarios, s.scenarios[id])
	}
	return scenarios, nil
}

// UpsertUser creates or refreshes a user record.
func (s *Store) UpsertUser(_ context.Context, user storage.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := s.users[user.ID]
	if !ok {
		if user.FirstSeenAt.IsZero() {
			user.FirstSeenAt = now
		}
		if user.LastSeenAt.IsZero() {
			user.LastSeenAt = now
		}
		s.users[user.ID] = user
		return nil
	}
	existing.Name = user.Name
	existing.LastSeenAt = user.LastSeenAt
	if existing.LastSeenAt.IsZero() {
		existing.LastSeenAt = now
	}
	s.users[user.ID] = existing
	return nil
}

// GetUser loads a user record by id.
func (s *Store) GetUser(_ context.Context, id string) (storage.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	return user, nil
}

// AppendTelemetryEvent appends one operational telemetry event.
func (s *Store) AppendTelemetryEvent(_ context.Context, evt storage.TelemetryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	s.telemetry = append(s.telemetry, evt)
	return nil
}

// TelemetryEvents returns a copy of the appended telemetry events.
func (s *Store) TelemetryEvents() []storage.TelemetryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.TelemetryEvent(nil), s.telemetry...)
}
