package check

import "testing"

func TestSuccessBoundary(t *testing.T) {
	tests := []struct {
		name       string
		roll       int
		difficulty int
		want       bool
	}{
		{name: "equal roll succeeds", roll: 10, difficulty: 10, want: true},
		{name: "one under fails", roll: 9, difficulty: 10, want: false},
		{name: "one over succeeds", roll: 11, difficulty: 10, want: true},
		{name: "minimum roll vs trivial difficulty", roll: 1, difficulty: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Success(tt.roll, tt.difficulty); got != tt.want {
				t.Fatalf("Success(%d, %d) = %v, want %v", tt.roll, tt.difficulty, got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	got := Score(12, 15)
	if got.Success {
		t.Fatal("expected failure for roll below difficulty")
	}
	if got.Margin != -3 {
		t.Fatalf("expected margin -3, got %d", got.Margin)
	}
}
