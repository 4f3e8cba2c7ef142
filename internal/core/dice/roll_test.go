package dice

import (
	"errors"
	"math/rand"
	"testing"
)

func TestRollBounds(t *testing.T) {
	tests := []struct {
		name  string
		sides int
	}{
		{name: "d20", sides: 20},
		{name: "d6", sides: 6},
		{name: "d1", sides: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < 1000; i++ {
				got, err := Roll(rng, tt.sides)
				if err != nil {
					t.Fatalf("roll: %v", err)
				}
				if got < 1 || got > tt.sides {
					t.Fatalf("roll %d out of range [1, %d]", got, tt.sides)
				}
			}
		})
	}
}

func TestRollInvalidSides(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := Roll(rng, 0); !errors.Is(err, ErrInvalidSides) {
		t.Fatalf("expected ErrInvalidSides, got %v", err)
	}
	if _, err := Roll(rng, -4); !errors.Is(err, ErrInvalidSides) {
		t.Fatalf("expected ErrInvalidSides, got %v", err)
	}
}

func TestRollDeterministicPerSeed(t *testing.T) {
	first, err := Roll(rand.New(rand.NewSource(7)), 20)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	second, err := Roll(rand.New(rand.NewSource(7)), 20)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical rolls for identical seeds, got %d and %d", first, second)
	}
}
