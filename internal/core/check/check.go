// Package check implements difficulty checks over die rolls.
package check

// Success reports whether roll meets difficulty. Ties succeed: a roll equal
// to the difficulty passes the check.
func Success(roll, difficulty int) bool {
	return roll >= difficulty
}

// Margin calculates the margin of success or failure.
// Positive values indicate success, negative indicate failure.
func Margin(roll, difficulty int) int {
	return roll - difficulty
}

// Result represents the outcome of a difficulty check.
type Result struct {
	Success bool
	Margin  int
}

// Score performs a difficulty check and returns the result.
func Score(roll, difficulty int) Result {
	return Result{
		Success: Success(roll, difficulty),
		Margin:  Margin(roll, difficulty),
	}
}
