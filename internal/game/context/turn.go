package context

import (
	"log"
	"time"

	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/game/rules"
)

// TurnContext exposes validated mutations over a single turn.
type TurnContext struct {
	Turn *domain.Turn

	now func() time.Time
}

// NewTurnContext wraps a turn. A nil now defaults to time.Now.
func NewTurnContext(turn *domain.Turn, now func() time.Time) *TurnContext {
	if now == nil {
		now = time.Now
	}
	return &TurnContext{Turn: turn, now: now}
}

// RecordPlayerAction stores one player's free-text action on an action turn.
// It refuses, logging and leaving the turn unchanged, when the turn is not
// an action turn, the player is not active, or the player already submitted.
// The first submission wins. When the last active player submits, the turn
// completes.
func (c *TurnContext) RecordPlayerAction(playerID, action string) bool {
	if c.Turn.Kind != domain.TurnKindAction {
		log.Printf("turn %s: rejecting action from %s: turn kind is %s", c.Turn.ID, playerID, c.Turn.Kind)
		return false
	}
	if c.Turn.Status != domain.TurnStatusPending {
		log.Printf("turn %s: rejecting action from %s: turn is %s", c.Turn.ID, playerID, c.Turn.Status)
		return false
	}
	if !c.Turn.IsActivePlayer(playerID) {
		log.Printf("turn %s: rejecting action from %s: not an active player", c.Turn.ID, playerID)
		return false
	}
	if _, submitted := c.Turn.Actions[playerID]; submitted {
		log.Printf("turn %s: rejecting action from %s: already submitted", c.Turn.ID, playerID)
		return false
	}

	c.Turn.Actions[playerID] = action
	c.completeIfAllSubmitted()
	return true
}

// RecordDiceResult scores roll against the turn's difficulty and stores the
// result for one player on a dice turn. The same refusal contract as
// RecordPlayerAction applies.
func (c *TurnContext) RecordDiceResult(playerID string, roll int, action string) (domain.DiceResult, bool) {
	if c.Turn.Kind != domain.TurnKindDice {
		log.Printf("turn %s: rejecting roll from %s: turn kind is %s", c.Turn.ID, playerID, c.Turn.Kind)
		return domain.DiceResult{}, false
	}
	if c.Turn.Status != domain.TurnStatusPending {
		log.Printf("turn %s: rejecting roll from %s: turn is %s", c.Turn.ID, playerID, c.Turn.Status)
		return domain.DiceResult{}, false
	}
	if !c.Turn.IsActivePlayer(playerID) {
		log.Printf("turn %s: rejecting roll from %s: not an active player", c.Turn.ID, playerID)
		return domain.DiceResult{}, false
	}
	if _, submitted := c.Turn.Results[playerID]; submitted {
		log.Printf("turn %s: rejecting roll from %s: already submitted", c.Turn.ID, playerID)
		return domain.DiceResult{}, false
	}

	score := rules.ScoreCheck(roll, c.Turn.Difficulty)
	result := domain.DiceResult{
		Roll:       roll,
		Success:    score.Success,
		Margin:     score.Margin,
		Difficulty: c.Turn.Difficulty,
		Action:     action,
	}
	c.Turn.Results[playerID] = result
	c.completeIfAllSubmitted()
	return result, true
}

// SetNarration stores the DM's narration on a pending DM turn.
func (c *TurnContext) SetNarration(narration string) bool {
	if c.Turn.Kind != domain.TurnKindDM || c.Turn.Status != domain.TurnStatusPending {
		log.Printf("turn %s: cannot set narration: kind=%s status=%s", c.Turn.ID, c.Turn.Kind, c.Turn.Status)
		return false
	}
	c.Turn.Narration = narration
	return true
}

// Complete marks a pending DM turn as completed. Completion of action and
// dice turns is derived from submissions, never called directly.
func (c *TurnContext) Complete() bool {
	if c.Turn.Kind != domain.TurnKindDM || c.Turn.Status != domain.TurnStatusPending {
		log.Printf("turn %s: cannot complete: kind=%s status=%s", c.Turn.ID, c.Turn.Kind, c.Turn.Status)
		return false
	}
	c.stampCompleted()
	return true
}

// SetNextHint records which turn should follow this one.
func (c *TurnContext) SetNextHint(kind domain.TurnKind, activePlayers []string) {
	c.Turn.Next = &domain.NextTurnHint{
		Kind:          kind,
		ActivePlayers: append([]string(nil), activePlayers...),
	}
}

func (c *TurnContext) completeIfAllSubmitted() {
	if c.Turn.AllSubmitted() {
		c.stampCompleted()
	}
}

func (c *TurnContext) stampCompleted() {
	completedAt := c.now().UTC()
	c.Turn.Status = domain.TurnStatusCompleted
	c.Turn.CompletedAt = &completedAt
}
