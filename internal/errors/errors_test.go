package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	a := New(CodeNotHost, "player p1 is not the host")
	b := New(CodeNotHost, "different message")
	if !stderrors.Is(a, b) {
		t.Fatal("expected errors with the same code to match")
	}
	c := New(CodeRoomNotFound, "room missing")
	if stderrors.Is(a, c) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("disk failure")
	err := Wrap(CodeNotFound, "load scenario", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeDuplicateSubmission, "dup")); got != CodeDuplicateSubmission {
		t.Fatalf("expected DUPLICATE_SUBMISSION, got %s", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN for plain error, got %s", got)
	}
}
