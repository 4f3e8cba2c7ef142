// Package sqlite provides SQLite-backed persistence for scenarios, users,
// and telemetry.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/fableroom/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/fableroom/internal/scenario"
	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides SQLite-backed persistence for the session host.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutScenario stores a scenario document, replacing any previous version.
func (s *Store) PutScenario(ctx context.Context, sc scenario.Scenario) error {
	normalized, err := scenario.Normalize(sc)
	if err != nil {
		return fmt.Errorf("normalize scenario: %w", err)
	}
	document, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO scenarios (id, name, document, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, document = excluded.document, updated_at = excluded.updated_at
`, normalized.ID, normalized.Name, string(document), toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("put scenario: %w", err)
	}
	return nil
}

// GetScenario loads a scenario document by id.
func (s *Store) GetScenario(ctx context.Context, id string) (scenario.Scenario, error) {
	var document string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT document FROM scenarios WHERE id = ?", id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return scenario.Scenario{}, storage.ErrNotFound
	}
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("get scenario: %w", err)
	}
	var sc scenario.Scenario
	if err := json.Unmarshal([]byte(document), &sc); err != nil {
		return scenario.Scenario{}, fmt.Errorf("unmarshal scenario %s: %w", id, err)
	}
	return sc, nil
}

// ListScenarios loads all scenario documents ordered by id.
func (s *Store) ListScenarios(ctx context.Context) ([]scenario.Scenario, error) {
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT document FROM scenarios ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []scenario.Scenario
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("scan scenario row: %w", err)
		}
		var sc scenario.Scenario
		if err := json.Unmarshal([]byte(document), &sc); err != nil {
			return nil, fmt.Errorf("unmarshal scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return scenarios, nil
}

// UpsertUser creates or refreshes a user record. The first-seen stamp is
// written once; later upserts only move name and last-seen.
func (s *Store) UpsertUser(ctx context.Context, user storage.UserRecord) error {
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	now := time.Now()
	firstSeen := user.FirstSeenAt
	if firstSeen.IsZero() {
		firstSeen = now
	}
	lastSeen := user.LastSeenAt
	if lastSeen.IsZero() {
		lastSeen = now
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, name, first_seen_at, last_seen_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, last_seen_at = excluded.last_seen_at
`, user.ID, user.Name, toMillis(firstSeen), toMillis(lastSeen))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser loads a user record by id.
func (s *Store) GetUser(ctx context.Context, id string) (storage.UserRecord, error) {
	var (
		user      storage.UserRecord
		firstSeen int64
		lastSeen  int64
	)
	err := s.sqlDB.QueryRowContext(ctx, "SELECT id, name, first_seen_at, last_seen_at FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Name, &firstSeen, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.UserRecord{}, fmt.Errorf("get user: %w", err)
	}
	user.FirstSeenAt = fromMillis(firstSeen)
	user.LastSeenAt = fromMillis(lastSeen)
	return user, nil
}

// AppendTelemetryEvent appends one operational telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if strings.TrimSpace(evt.Kind) == "" {
		return fmt.Errorf("telemetry kind is required")
	}
	occurredAt := evt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO telemetry_events (kind, room_id, player_id, detail, occurred_at) VALUES (?, ?, ?, ?, ?)
`, evt.Kind, evt.RoomID, evt.PlayerID, evt.Detail, toMillis(occurredAt))
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}
