package context

import (
	"strings"

	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/game/rules"
)

// CharacterContext exposes validated mutations over a single character.
type CharacterContext struct {
	Character *domain.Character
}

// NewCharacterContext wraps a character.
func NewCharacterContext(character *domain.Character) *CharacterContext {
	return &CharacterContext{Character: character}
}

// ApplyHealthDelta adjusts health by delta, clamped into [0, MaxHealth].
// It returns the character's health after the change.
func (c *CharacterContext) ApplyHealthDelta(delta int) int {
	rules.ApplyHealthChange(c.Character, delta)
	return c.Character.Health
}

// SetLocation moves the character. Blank locations are ignored.
func (c *CharacterContext) SetLocation(location string) bool {
	location = strings.TrimSpace(location)
	if location == "" {
		return false
	}
	c.Character.Location = location
	return true
}

// AddItem appends an item to the character's inventory. Blank items are
// ignored.
func (c *CharacterContext) AddItem(item string) bool {
	item = strings.TrimSpace(item)
	if item == "" {
		return false
	}
	c.Character.Inventory = append(c.Character.Inventory, item)
	return true
}

// RemoveItem drops the first inventory entry matching item, reporting
// whether anything was removed.
func (c *CharacterContext) RemoveItem(item string) bool {
	for i, held := range c.Character.Inventory {
		if held == item {
			c.Character.Inventory = append(c.Character.Inventory[:i], c.Character.Inventory[i+1:]...)
			return true
		}
	}
	return false
}
