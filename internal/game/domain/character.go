package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/fableroom/internal/id"
	"github.com/louisbranch/fableroom/internal/scenario"
)

var (
	// ErrEmptyCharacterName indicates a missing character name.
	ErrEmptyCharacterName = errors.New("character name is required")
	// ErrInvalidMaxHealth indicates a non-positive max health value.
	ErrInvalidMaxHealth = errors.New("max health must be positive")
)

// Character is an in-fiction persona within a match, optionally bound to a
// player.
//
// Invariants: Health stays within [0, MaxHealth]; Alive is true exactly when
// Health > 0; an empty PlayerID marks the character as an NPC.
type Character struct {
	ID         string
	Name       string
	PlayerID   string
	Health     int
	MaxHealth  int
	Alive      bool
	Attributes map[string]int
	Inventory  []string
	Location   string
}

// CreateCharacterInput describes the fields needed to create a character.
type CreateCharacterInput struct {
	Name       string
	PlayerID   string
	MaxHealth  int
	Attributes map[string]int
	Inventory  []string
	Location   string
}

// CreateCharacter creates a character at full health with a generated ID.
func CreateCharacter(input CreateCharacterInput, idGenerator func() (string, error)) (Character, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateCharacterInput(input)
	if err != nil {
		return Character{}, err
	}

	characterID, err := idGenerator()
	if err != nil {
		return Character{}, fmt.Errorf("generate character id: %w", err)
	}

	attributes := make(map[string]int, len(normalized.Attributes))
	for k, v := range normalized.Attributes {
		attributes[k] = v
	}

	return Character{
		ID:         characterID,
		Name:       normalized.Name,
		PlayerID:   normalized.PlayerID,
		Health:     normalized.MaxHealth,
		MaxHealth:  normalized.MaxHealth,
		Alive:      true,
		Attributes: attributes,
		Inventory:  append([]string(nil), normalized.Inventory...),
		Location:   normalized.Location,
	}, nil
}

// NormalizeCreateCharacterInput trims and validates character input.
func NormalizeCreateCharacterInput(input CreateCharacterInput) (CreateCharacterInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateCharacterInput{}, ErrEmptyCharacterName
	}
	if input.MaxHealth <= 0 {
		return CreateCharacterInput{}, ErrInvalidMaxHealth
	}
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.Location = strings.TrimSpace(input.Location)
	return input, nil
}

// CharacterFromTemplate builds create input from a scenario template.
func CharacterFromTemplate(template scenario.CharacterTemplate, playerID string) CreateCharacterInput {
	return CreateCharacterInput{
		Name:       template.Name,
		PlayerID:   playerID,
		MaxHealth:  template.MaxHealth,
		Attributes: template.Attributes,
		Inventory:  template.Items,
		Location:   template.StartLocation,
	}
}
