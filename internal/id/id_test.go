package id

import "testing"

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(got) != 26 {
			t.Fatalf("expected 26 characters, got %d (%q)", len(got), got)
		}
		for _, r := range got {
			if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
				t.Fatalf("unexpected character %q in id %q", r, got)
			}
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id generated: %q", got)
		}
		seen[got] = struct{}{}
	}
}
