package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/fableroom/internal/id"
)

// SettingScenarioID is the room settings key holding the chosen scenario id.
const SettingScenarioID = "scenario_id"

// SettingPlotProgress is the room settings key tracking narrative progress.
const SettingPlotProgress = "plot_progress"

var (
	// ErrEmptyRoomName indicates a missing room name.
	ErrEmptyRoomName = errors.New("room name is required")
	// ErrEmptyPlayerID indicates a missing player id.
	ErrEmptyPlayerID = errors.New("player id is required")
)

// Player represents a participant in a room. The id is opaque and stable for
// the session, typically the external chat platform's user id.
type Player struct {
	ID          string
	Name        string
	JoinedAt    time.Time
	Ready       bool
	IsHost      bool
	CharacterID string
}

// Room groups players and owns the matches played together.
//
// Invariants: player ids are unique within a room; HostID is either empty or
// the id of a player currently in the room; at most one player has IsHost
// set at any time.
type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Players   []Player
	Matches   []Match
	// CurrentMatchID is empty when no match is in progress.
	CurrentMatchID string
	HostID         string
	Settings       map[string]string
}

// CreateRoomInput describes the metadata needed to create a room.
type CreateRoomInput struct {
	Name string
}

// CreateRoom creates a new empty room with a generated ID and timestamps.
func CreateRoom(input CreateRoomInput, now func() time.Time, idGenerator func() (string, error)) (Room, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateRoomInput(input)
	if err != nil {
		return Room{}, err
	}

	roomID, err := idGenerator()
	if err != nil {
		return Room{}, fmt.Errorf("generate room id: %w", err)
	}

	return Room{
		ID:        roomID,
		Name:      normalized.Name,
		CreatedAt: now().UTC(),
		Settings:  make(map[string]string),
	}, nil
}

// NormalizeCreateRoomInput trims and validates room input metadata.
func NormalizeCreateRoomInput(input CreateRoomInput) (CreateRoomInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateRoomInput{}, ErrEmptyRoomName
	}
	return input, nil
}

// Player returns the player with the given id, or nil when absent.
func (r *Room) Player(playerID string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			return &r.Players[i]
		}
	}
	return nil
}

// Host returns the current host player, or nil when the room has no host.
func (r *Room) Host() *Player {
	if r.HostID == "" {
		return nil
	}
	return r.Player(r.HostID)
}

// CurrentMatch returns the match referenced by CurrentMatchID, or nil.
func (r *Room) CurrentMatch() *Match {
	if r.CurrentMatchID == "" {
		return nil
	}
	for i := range r.Matches {
		if r.Matches[i].ID == r.CurrentMatchID {
			return &r.Matches[i]
		}
	}
	return nil
}

// ScenarioID returns the scenario chosen in the room settings, if any.
func (r *Room) ScenarioID() string {
	return r.Settings[SettingScenarioID]
}
