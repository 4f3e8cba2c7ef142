package domain

import (
	"fmt"
	"time"

	"github.com/louisbranch/fableroom/internal/id"
	"github.com/louisbranch/fableroom/internal/scenario"
)

// MatchStatus describes the lifecycle state of a match.
type MatchStatus int

const (
	// MatchStatusUnspecified represents an invalid match status value.
	MatchStatusUnspecified MatchStatus = iota
	// MatchStatusWaiting indicates the match is assembling players.
	MatchStatusWaiting
	// MatchStatusRunning indicates the match is in play.
	MatchStatusRunning
	// MatchStatusPaused indicates play is temporarily suspended.
	MatchStatusPaused
	// MatchStatusFinished indicates the match has ended. Terminal.
	MatchStatusFinished
)

func (s MatchStatus) String() string {
	switch s {
	case MatchStatusWaiting:
		return "WAITING"
	case MatchStatusRunning:
		return "RUNNING"
	case MatchStatusPaused:
		return "PAUSED"
	case MatchStatusFinished:
		return "FINISHED"
	default:
		return "UNSPECIFIED"
	}
}

// CanTransition reports whether a status change is legal. Transitions are
// monotonic except for the RUNNING and PAUSED pair, and FINISHED is terminal.
func (s MatchStatus) CanTransition(next MatchStatus) bool {
	switch s {
	case MatchStatusWaiting:
		return next == MatchStatusRunning || next == MatchStatusFinished
	case MatchStatusRunning:
		return next == MatchStatusPaused || next == MatchStatusFinished
	case MatchStatusPaused:
		return next == MatchStatusRunning || next == MatchStatusFinished
	default:
		return false
	}
}

// Match represents one play-through of the RPG within a room.
//
// Invariants: ScenarioID is immutable once the match is RUNNING;
// CurrentTurnID, when set, references a turn in Turns; Turns is append-only
// history and turns are never deleted.
type Match struct {
	ID        string
	Status    MatchStatus
	Scene     string
	CreatedAt time.Time
	Turns     []Turn
	// CurrentTurnID is empty between turns.
	CurrentTurnID string
	ScenarioID    string
	Characters    []Character
	Templates     []scenario.CharacterTemplate
	GameState     map[string]string
}

// CreateMatch creates a new waiting match with a generated ID.
func CreateMatch(now func() time.Time, idGenerator func() (string, error)) (Match, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	matchID, err := idGenerator()
	if err != nil {
		return Match{}, fmt.Errorf("generate match id: %w", err)
	}

	return Match{
		ID:        matchID,
		Status:    MatchStatusWaiting,
		CreatedAt: now().UTC(),
		GameState: make(map[string]string),
	}, nil
}

// Turn returns the turn with the given id, or nil when absent.
func (m *Match) Turn(turnID string) *Turn {
	for i := range m.Turns {
		if m.Turns[i].ID == turnID {
			return &m.Turns[i]
		}
	}
	return nil
}

// CurrentTurn returns the turn referenced by CurrentTurnID, or nil.
func (m *Match) CurrentTurn() *Turn {
	if m.CurrentTurnID == "" {
		return nil
	}
	return m.Turn(m.CurrentTurnID)
}

// Character returns the character with the given id, or nil when absent.
func (m *Match) Character(characterID string) *Character {
	for i := range m.Characters {
		if m.Characters[i].ID == characterID {
			return &m.Characters[i]
		}
	}
	return nil
}

// CharacterByPlayer returns the character bound to playerID, or nil.
func (m *Match) CharacterByPlayer(playerID string) *Character {
	if playerID == "" {
		return nil
	}
	for i := range m.Characters {
		if m.Characters[i].PlayerID == playerID {
			return &m.Characters[i]
		}
	}
	return nil
}

// CharacterByName returns the character with the given name, or nil.
func (m *Match) CharacterByName(name string) *Character {
	for i := range m.Characters {
		if m.Characters[i].Name == name {
			return &m.Characters[i]
		}
	}
	return nil
}
