// Package ai defines the DM narration contract and its OpenAI-backed
// implementation.
//
// The host hands the narrator a snapshot of the match and receives a
// structured response: the narration itself, the shape of the next turn,
// and side effects to apply to the world. Callers bound the call with a
// timeout and degrade to a fallback narration on any failure so a hung or
// failing model never stalls a match.
package ai

import "context"

// PlayerInfo describes one player for the narration context.
type PlayerInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CharacterName string `json:"character_name,omitempty"`
	Health        int    `json:"health"`
	MaxHealth     int    `json:"max_health"`
	Location      string `json:"location,omitempty"`
	Alive         bool   `json:"alive"`
}

// NarrationContext is the snapshot the DM narrates from.
type NarrationContext struct {
	CurrentScene  string            `json:"current_scene"`
	Players       []PlayerInfo      `json:"players"`
	PlayerActions map[string]string `json:"player_actions,omitempty"`
	DiceResults   []string          `json:"dice_results,omitempty"`
	History       []string          `json:"history,omitempty"`
	ScenarioInfo  string            `json:"scenario_info,omitempty"`
}

// LocationUpdate moves a character to a new location.
type LocationUpdate struct {
	CharacterName string `json:"character_name"`
	Location      string `json:"location"`
}

// ItemUpdate adds or removes an inventory item.
type ItemUpdate struct {
	CharacterName string `json:"character_name"`
	Item          string `json:"item"`
	Remove        bool   `json:"remove,omitempty"`
}

// Narration is the DM's structured response for one beat.
type Narration struct {
	Narration       string           `json:"narration"`
	NeedDiceRoll    bool             `json:"need_dice_roll"`
	Difficulty      int              `json:"difficulty,omitempty"`
	ActionDesc      string           `json:"action_desc,omitempty"`
	ActivePlayers   []string         `json:"active_players"`
	LocationUpdates []LocationUpdate `json:"location_updates,omitempty"`
	ItemUpdates     []ItemUpdate     `json:"item_updates,omitempty"`
	PlotProgress    *int             `json:"plot_progress,omitempty"`
	GameOver        bool             `json:"game_over"`
	GameResult      string           `json:"game_result,omitempty"`
}

// Narrator produces the next narration beat for a match snapshot.
type Narrator interface {
	Narrate(ctx context.Context, nc NarrationContext) (Narration, error)
}

// StaticNarrator answers every beat with the same canned line. It keeps a
// host without model credentials usable for local play.
type StaticNarrator struct {
	Line string
}

func (s StaticNarrator) Narrate(_ context.Context, nc NarrationContext) (Narration, error) {
	return Fallback(s.Line, nc), nil
}

// Fallback builds the degraded narration used when the narrator fails: a
// canned line addressed to every living player as a plain action turn, so
// the match keeps moving.
func Fallback(narration string, nc NarrationContext) Narration {
	var active []string
	for _, player := range nc.Players {
		if player.Alive {
			active = append(active, player.ID)
		}
	}
	return Narration{
		Narration:     narration,
		ActivePlayers: active,
	}
}
