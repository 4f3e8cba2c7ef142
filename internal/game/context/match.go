package context

import (
	"time"

	apperrors "github.com/louisbranch/fableroom/internal/errors"
	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/scenario"
)

// MatchContext exposes validated mutations over a single match.
type MatchContext struct {
	Match *domain.Match

	now func() time.Time
}

// NewMatchContext wraps a match. A nil now defaults to time.Now.
func NewMatchContext(match *domain.Match, now func() time.Time) *MatchContext {
	if now == nil {
		now = time.Now
	}
	return &MatchContext{Match: match, now: now}
}

// Start transitions the match from WAITING to RUNNING. It fails when the
// match is already running or finished, or when no scenario is set.
func (c *MatchContext) Start() error {
	if c.Match.ScenarioID == "" {
		return apperrors.New(apperrors.CodeScenarioMissing, "match has no scenario")
	}
	if !c.Match.Status.CanTransition(domain.MatchStatusRunning) {
		return apperrors.New(apperrors.CodeMatchRunning, "match cannot start from "+c.Match.Status.String())
	}
	c.Match.Status = domain.MatchStatusRunning
	return nil
}

// SetScenario binds a scenario to the match. The scenario is immutable once
// the match is running or beyond.
func (c *MatchContext) SetScenario(s *scenario.Scenario) error {
	if c.Match.Status != domain.MatchStatusWaiting {
		return apperrors.New(apperrors.CodeScenarioLocked, "scenario is locked once the match has started")
	}
	c.Match.ScenarioID = s.ID
	c.Match.Scene = s.MainScene
	c.Match.Templates = append([]scenario.CharacterTemplate(nil), s.Templates...)
	// Reselecting a scenario discards characters built from the old one.
	c.Match.Characters = nil
	return nil
}

// Pause suspends a running match.
func (c *MatchContext) Pause() error {
	if c.Match.Status != domain.MatchStatusRunning {
		return apperrors.New(apperrors.CodeMatchNotRunning, "only a running match can pause")
	}
	c.Match.Status = domain.MatchStatusPaused
	return nil
}

// Resume continues a paused match.
func (c *MatchContext) Resume() error {
	if c.Match.Status != domain.MatchStatusPaused {
		return apperrors.New(apperrors.CodeMatchNotPaused, "only a paused match can resume")
	}
	c.Match.Status = domain.MatchStatusRunning
	return nil
}

// Finish ends the match. FINISHED is terminal.
func (c *MatchContext) Finish() error {
	if !c.Match.Status.CanTransition(domain.MatchStatusFinished) {
		return apperrors.New(apperrors.CodeMatchFinished, "match is already finished")
	}
	c.Match.Status = domain.MatchStatusFinished
	return nil
}

// AppendTurn adds a turn to the match history and marks it current.
func (c *MatchContext) AppendTurn(turn domain.Turn) *domain.Turn {
	c.Match.Turns = append(c.Match.Turns, turn)
	c.Match.CurrentTurnID = turn.ID
	return &c.Match.Turns[len(c.Match.Turns)-1]
}

// BindCharacter attaches a character entity to the match, binding it to the
// given player. A player rebinding to a new character releases the old one
// back to the pool; a character already bound to another player is refused.
func (c *MatchContext) BindCharacter(playerID string, character domain.Character) (*domain.Character, error) {
	if c.Match.Status != domain.MatchStatusWaiting {
		return nil, apperrors.New(apperrors.CodeMatchRunning, "characters are locked once the match has started")
	}
	if existing := c.Match.CharacterByName(character.Name); existing != nil {
		if existing.PlayerID != "" && existing.PlayerID != playerID {
			return nil, apperrors.WithMetadata(apperrors.CodeCharacterTaken, "character is bound to another player", map[string]string{
				"character": character.Name,
			})
		}
		existing.PlayerID = playerID
		c.unbindOthers(playerID, existing.ID)
		return existing, nil
	}
	character.PlayerID = playerID
	c.Match.Characters = append(c.Match.Characters, character)
	bound := &c.Match.Characters[len(c.Match.Characters)-1]
	c.unbindOthers(playerID, bound.ID)
	return bound, nil
}

// unbindOthers releases every other character held by playerID so a player
// is bound to at most one character at a time.
func (c *MatchContext) unbindOthers(playerID, keepCharacterID string) {
	for i := range c.Match.Characters {
		if c.Match.Characters[i].PlayerID == playerID && c.Match.Characters[i].ID != keepCharacterID {
			c.Match.Characters[i].PlayerID = ""
		}
	}
}
