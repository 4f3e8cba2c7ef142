package domain

import (
	"fmt"
	"time"

	"github.com/louisbranch/fableroom/internal/id"
)

// TurnKind discriminates the closed set of turn variants.
type TurnKind int

const (
	// TurnKindUnspecified represents an invalid turn kind value.
	TurnKindUnspecified TurnKind = iota
	// TurnKindDM is a narration beat produced by the DM.
	TurnKindDM
	// TurnKindAction collects free-text actions from the active players.
	TurnKindAction
	// TurnKindDice collects dice checks from the active players.
	TurnKindDice
)

func (k TurnKind) String() string {
	switch k {
	case TurnKindDM:
		return "DM"
	case TurnKindAction:
		return "ACTION"
	case TurnKindDice:
		return "DICE"
	default:
		return "UNSPECIFIED"
	}
}

// TurnStatus describes the lifecycle state of a turn.
type TurnStatus int

const (
	// TurnStatusUnspecified represents an invalid turn status value.
	TurnStatusUnspecified TurnStatus = iota
	// TurnStatusPending indicates the turn is waiting on submissions.
	TurnStatusPending
	// TurnStatusCompleted indicates every active player has submitted.
	TurnStatusCompleted
)

func (s TurnStatus) String() string {
	switch s {
	case TurnStatusPending:
		return "PENDING"
	case TurnStatusCompleted:
		return "COMPLETED"
	default:
		return "UNSPECIFIED"
	}
}

// NextTurnHint records the DM's decision about the turn that should follow.
type NextTurnHint struct {
	Kind          TurnKind
	ActivePlayers []string
}

// DiceResult records one player's dice check within a dice turn.
type DiceResult struct {
	Roll       int
	Success    bool
	Margin     int
	Difficulty int
	Action     string
}

// Turn is one discrete beat of a match. It is a tagged union on Kind:
//
//   - TurnKindDM uses Narration.
//   - TurnKindAction uses ActivePlayers and Actions.
//   - TurnKindDice uses ActivePlayers, Difficulty, ActionDesc, and Results.
//
// Consumption sites switch exhaustively on Kind; fields belonging to other
// variants stay zero.
//
// Invariants: keys of Actions/Results are a subset of ActivePlayers with at
// most one entry per player; Status is COMPLETED exactly when every active
// player has a recorded entry. DM turns are completed by the controlling
// command once narration is set, never auto-derived.
type Turn struct {
	ID          string
	Kind        TurnKind
	Status      TurnStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	Next        *NextTurnHint

	// DM variant
	Narration string

	// Action and dice variants
	ActivePlayers []string

	// Action variant
	Actions map[string]string

	// Dice variant
	Difficulty int
	ActionDesc string
	Results    map[string]DiceResult
}

// NewDMTurn creates a pending DM narration turn.
func NewDMTurn(now func() time.Time, idGenerator func() (string, error)) (Turn, error) {
	base, err := newTurn(TurnKindDM, now, idGenerator)
	if err != nil {
		return Turn{}, err
	}
	return base, nil
}

// NewActionTurn creates a pending action turn for the given active players.
func NewActionTurn(activePlayers []string, now func() time.Time, idGenerator func() (string, error)) (Turn, error) {
	base, err := newTurn(TurnKindAction, now, idGenerator)
	if err != nil {
		return Turn{}, err
	}
	base.ActivePlayers = append([]string(nil), activePlayers...)
	base.Actions = make(map[string]string, len(activePlayers))
	return base, nil
}

// NewDiceTurn creates a pending dice turn for the given active players.
func NewDiceTurn(activePlayers []string, difficulty int, actionDesc string, now func() time.Time, idGenerator func() (string, error)) (Turn, error) {
	base, err := newTurn(TurnKindDice, now, idGenerator)
	if err != nil {
		return Turn{}, err
	}
	base.ActivePlayers = append([]string(nil), activePlayers...)
	base.Difficulty = difficulty
	base.ActionDesc = actionDesc
	base.Results = make(map[string]DiceResult, len(activePlayers))
	return base, nil
}

func newTurn(kind TurnKind, now func() time.Time, idGenerator func() (string, error)) (Turn, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	turnID, err := idGenerator()
	if err != nil {
		return Turn{}, fmt.Errorf("generate turn id: %w", err)
	}
	return Turn{
		ID:        turnID,
		Kind:      kind,
		Status:    TurnStatusPending,
		CreatedAt: now().UTC(),
	}, nil
}

// IsActivePlayer reports whether playerID belongs to the turn's active set.
func (t *Turn) IsActivePlayer(playerID string) bool {
	for _, active := range t.ActivePlayers {
		if active == playerID {
			return true
		}
	}
	return false
}

// SubmissionCount returns how many active players have a recorded entry.
func (t *Turn) SubmissionCount() int {
	switch t.Kind {
	case TurnKindAction:
		return len(t.Actions)
	case TurnKindDice:
		return len(t.Results)
	default:
		return 0
	}
}

// AllSubmitted reports whether every active player has a recorded entry.
func (t *Turn) AllSubmitted() bool {
	if t.Kind != TurnKindAction && t.Kind != TurnKindDice {
		return false
	}
	return t.SubmissionCount() == len(t.ActivePlayers)
}
