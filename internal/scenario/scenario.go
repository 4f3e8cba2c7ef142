// Package scenario defines the static story content a match plays through:
// character templates, scenes, narrative events, and NPCs.
//
// Scenarios are external read-only documents loaded by id from a store. The
// core reads template and scene fields and tracks progress through the
// ordered narrative events; it never mutates the scenario itself.
package scenario

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyID indicates a scenario without an id.
	ErrEmptyID = errors.New("scenario id is required")
	// ErrEmptyName indicates a scenario without a name.
	ErrEmptyName = errors.New("scenario name is required")
	// ErrInvalidPlayerRange indicates a malformed min/max player range.
	ErrInvalidPlayerRange = errors.New("scenario player range is invalid")
	// ErrNoTemplates indicates a scenario without character templates.
	ErrNoTemplates = errors.New("scenario requires at least one character template")
)

// CharacterTemplate describes a playable character a scenario offers.
type CharacterTemplate struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	MaxHealth     int            `json:"max_health"`
	Attributes    map[string]int `json:"attributes,omitempty"`
	Items         []string       `json:"items,omitempty"`
	StartLocation string         `json:"start_location,omitempty"`
}

// Scene is one location beat of the scenario, optionally carrying a puzzle
// and collectible items.
type Scene struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Puzzle      string   `json:"puzzle,omitempty"`
	Items       []string `json:"items,omitempty"`
}

// NarrativeEvent is one entry of the scenario's ordered plot outline. The
// match's plot-progress index points into this list.
type NarrativeEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NPC describes a non-player character the DM may bring on stage.
type NPC struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Scenario is a complete story definition.
type Scenario struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	MinPlayers      int                 `json:"min_players"`
	MaxPlayers      int                 `json:"max_players"`
	WorldBackground string              `json:"world_background,omitempty"`
	MainScene       string              `json:"main_scene,omitempty"`
	Templates       []CharacterTemplate `json:"templates"`
	Scenes          []Scene             `json:"scenes,omitempty"`
	Events          []NarrativeEvent    `json:"events,omitempty"`
	NPCs            []NPC               `json:"npcs,omitempty"`
}

// Normalize trims identifying fields and validates structural invariants.
func Normalize(s Scenario) (Scenario, error) {
	s.ID = strings.TrimSpace(s.ID)
	if s.ID == "" {
		return Scenario{}, ErrEmptyID
	}
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Scenario{}, ErrEmptyName
	}
	if s.MinPlayers <= 0 || s.MaxPlayers < s.MinPlayers {
		return Scenario{}, ErrInvalidPlayerRange
	}
	if len(s.Templates) == 0 {
		return Scenario{}, ErrNoTemplates
	}
	for i, template := range s.Templates {
		name := strings.TrimSpace(template.Name)
		if name == "" {
			return Scenario{}, fmt.Errorf("template %d: name is required", i)
		}
		if template.MaxHealth <= 0 {
			return Scenario{}, fmt.Errorf("template %q: max health must be positive", name)
		}
		s.Templates[i].Name = name
	}
	return s, nil
}

// Template returns the character template with the given name, or nil.
func (s *Scenario) Template(name string) *CharacterTemplate {
	for i := range s.Templates {
		if s.Templates[i].Name == name {
			return &s.Templates[i]
		}
	}
	return nil
}

// TemplateNames returns the names of all character templates in order.
func (s *Scenario) TemplateNames() []string {
	names := make([]string, 0, len(s.Templates))
	for _, template := range s.Templates {
		names = append(names, template.Name)
	}
	return names
}

// AcceptsPlayerCount reports whether n players fit the scenario's range.
func (s *Scenario) AcceptsPlayerCount(n int) bool {
	return n >= s.MinPlayers && n <= s.MaxPlayers
}

// EventAt returns the narrative event at the given plot-progress index, or
// nil when progress has moved past the outline.
func (s *Scenario) EventAt(progress int) *NarrativeEvent {
	if progress < 0 || progress >= len(s.Events) {
		return nil
	}
	return &s.Events[progress]
}

// Excerpt assembles the scenario context the DM needs at the given
// plot-progress index: world background, the main scene, and the current
// narrative event when one remains.
func (s *Scenario) Excerpt(progress int) string {
	var parts []string
	if s.WorldBackground != "" {
		parts = append(parts, s.WorldBackground)
	}
	if s.MainScene != "" {
		parts = append(parts, s.MainScene)
	}
	if current := s.EventAt(progress); current != nil {
		parts = append(parts, fmt.Sprintf("%s: %s", current.Name, current.Description))
	}
	return strings.Join(parts, "\n")
}
