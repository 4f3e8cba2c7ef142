// Package rules implements the rule engine: dice checks, failure damage,
// and health arithmetic. Every function is pure over the entities it is
// given; randomness comes from an injected source.
package rules

import (
	"fmt"
	"math/rand"

	"github.com/louisbranch/fableroom/internal/core/check"
	"github.com/louisbranch/fableroom/internal/core/dice"
	"github.com/louisbranch/fableroom/internal/game/domain"
)

// DefaultDieSides is the die used for checks when no override applies.
const DefaultDieSides = 20

// RollDie rolls a single die with the given sides using rng. The result is
// uniform in [1, sides].
func RollDie(rng *rand.Rand, sides int) (int, error) {
	return dice.Roll(rng, sides)
}

// CheckSuccess reports whether roll meets difficulty. Ties succeed.
func CheckSuccess(roll, difficulty int) bool {
	return check.Success(roll, difficulty)
}

// ScoreCheck scores roll against difficulty, reporting success and the
// margin by which the check passed or failed.
func ScoreCheck(roll, difficulty int) check.Result {
	return check.Score(roll, difficulty)
}

// HandleDiceCheck rolls the default die and scores it against difficulty.
func HandleDiceCheck(rng *rand.Rand, difficulty int) (success bool, roll int, err error) {
	roll, err = RollDie(rng, DefaultDieSides)
	if err != nil {
		return false, 0, err
	}
	return CheckSuccess(roll, difficulty), roll, nil
}

// FailureDamage returns the health penalty for failing a check of the given
// difficulty. The penalty is monotonic: a harder check hurts more.
func FailureDamage(difficulty int) int {
	if difficulty <= 0 {
		return 1
	}
	return 1 + difficulty/5
}

// ApplyHealthChange adjusts a character's health by delta, clamping the
// result into [0, MaxHealth] and rederiving Alive.
func ApplyHealthChange(character *domain.Character, delta int) {
	health := character.Health + delta
	if health < 0 {
		health = 0
	}
	if health > character.MaxHealth {
		health = character.MaxHealth
	}
	character.Health = health
	character.Alive = health > 0
}

// DiceSummary is one player's scored check in display order.
type DiceSummary struct {
	PlayerID   string
	Roll       int
	Difficulty int
	Success    bool
	Margin     int
	Action     string
}

// String renders the summary as a single display line.
func (s DiceSummary) String() string {
	outcome := "failure"
	if s.Success {
		outcome = "success"
	}
	return fmt.Sprintf("%s rolled %d vs %d (%s, margin %+d): %s", s.PlayerID, s.Roll, s.Difficulty, outcome, s.Margin, s.Action)
}

// ProcessDiceTurnResults aggregates a dice turn's recorded results into
// summaries ordered by the turn's active-player list, preserving each
// player's original action text. Players without a recorded result are
// skipped.
func ProcessDiceTurnResults(turn *domain.Turn) []DiceSummary {
	if turn == nil || turn.Kind != domain.TurnKindDice {
		return nil
	}
	summaries := make([]DiceSummary, 0, len(turn.Results))
	for _, playerID := range turn.ActivePlayers {
		result, ok := turn.Results[playerID]
		if !ok {
			continue
		}
		summaries = append(summaries, DiceSummary{
			PlayerID:   playerID,
			Roll:       result.Roll,
			Difficulty: result.Difficulty,
			Success:    result.Success,
			Margin:     result.Margin,
			Action:     result.Action,
		})
	}
	return summaries
}
