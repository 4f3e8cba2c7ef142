// Package dice implements uniform die rolls for the rule engine.
package dice

import (
	"errors"
	"math/rand"
)

// ErrInvalidSides indicates a die specification with a non-positive side count.
var ErrInvalidSides = errors.New("die must have positive sides")

// Roll rolls a single die with the provided number of sides using the given
// random source. The result is uniform in [1, sides].
//
// Roll is deterministic with respect to the state of rng: two sources seeded
// identically produce identical sequences of rolls.
func Roll(rng *rand.Rand, sides int) (int, error) {
	if sides <= 0 {
		return 0, ErrInvalidSides
	}
	return rng.Intn(sides) + 1, nil
}
