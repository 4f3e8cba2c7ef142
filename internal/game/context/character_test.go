package context

import (
	"testing"

	"github.com/louisbranch/fableroom/internal/game/domain"
)

func TestApplyHealthDelta(t *testing.T) {
	character := domain.Character{Name: "Scholar", Health: 8, MaxHealth: 8, Alive: true}
	ctx := NewCharacterContext(&character)

	if got := ctx.ApplyHealthDelta(-3); got != 5 {
		t.Fatalf("expected 5 health, got %d", got)
	}
	if got := ctx.ApplyHealthDelta(-10); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if character.Alive {
		t.Fatal("expected character dead at 0 health")
	}
	if got := ctx.ApplyHealthDelta(20); got != 8 {
		t.Fatalf("expected clamp to max, got %d", got)
	}
	if !character.Alive {
		t.Fatal("expected character alive after healing")
	}
}

func TestInventoryAndLocation(t *testing.T) {
	character := domain.Character{Name: "Hunter", Health: 12, MaxHealth: 12, Alive: true}
	ctx := NewCharacterContext(&character)

	if ctx.SetLocation("  ") {
		t.Fatal("expected blank location ignored")
	}
	if !ctx.SetLocation("the cellar") {
		t.Fatal("expected location set")
	}
	if !ctx.AddItem("rusty key") {
		t.Fatal("expected item added")
	}
	if ctx.AddItem("") {
		t.Fatal("expected blank item ignored")
	}
	if !ctx.RemoveItem("rusty key") {
		t.Fatal("expected item removed")
	}
	if ctx.RemoveItem("rusty key") {
		t.Fatal("expected second removal to fail")
	}
	if character.Location != "the cellar" {
		t.Fatalf("expected location updated, got %q", character.Location)
	}
}
