package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/louisbranch/fableroom/internal/event"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testTime }

func TestVerifyToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken("alice", "Alice", secret, time.Hour, fixedClock)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	who, err := verifyToken(token, secret, fixedClock)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if who.PlayerID != "alice" || who.Name != "Alice" {
		t.Fatalf("identity %+v, want alice/Alice", who)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueToken("alice", "Alice", secret, time.Hour, fixedClock)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifyToken(token, []byte("other-secret"), fixedClock); err == nil {
		t.Fatal("wrong secret should be rejected")
	}

	expired := func() time.Time { return testTime.Add(2 * time.Hour) }
	if _, err := verifyToken(token, secret, expired); err == nil {
		t.Fatal("expired token should be rejected")
	}

	if _, err := verifyToken("not-a-token", secret, fixedClock); err == nil {
		t.Fatal("malformed token should be rejected")
	}
}

func dialAdapter(t *testing.T, a *Adapter) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(url, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// receiveEvent polls the adapter until an event arrives or the deadline
// passes. The websocket handler runs on the server goroutine, so the queue
// fills asynchronously.
func receiveEvent(t *testing.T, a *Adapter) *event.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if evt := a.Receive(); evt != nil {
			return evt
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no event received before deadline")
	return nil
}

func TestHandshakeQueuesPlayerJoined(t *testing.T) {
	a := New(Config{Now: fixedClock})
	conn := dialAdapter(t, a)

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "hello", PlayerID: "alice", Name: "Alice"}); err != nil {
		t.Fatalf("send hello: %v", err)
	}

	evt := receiveEvent(t, a)
	if evt.Type != event.TypePlayerJoined {
		t.Fatalf("expected PLAYER_JOINED, got %s", evt.Type)
	}
	payload := evt.Payload.(event.PlayerJoinedPayload)
	if payload.PlayerID != "alice" || payload.Name != "Alice" {
		t.Fatalf("payload %+v, want alice/Alice", payload)
	}
}

func TestHandshakeWithToken(t *testing.T) {
	secret := []byte("test-secret")
	a := New(Config{Secret: secret, Now: fixedClock})
	conn := dialAdapter(t, a)

	token, err := IssueToken("bob", "Bob", secret, time.Hour, fixedClock)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if err := websocket.JSON.Send(conn, inboundFrame{Type: "hello", Token: token}); err != nil {
		t.Fatalf("send hello: %v", err)
	}

	evt := receiveEvent(t, a)
	if evt.PlayerID != "bob" {
		t.Fatalf("player id %q, want bob", evt.PlayerID)
	}
}

func TestHandshakeRejectsBadToken(t *testing.T) {
	a := New(Config{Secret: []byte("test-secret"), Now: fixedClock})
	conn := dialAdapter(t, a)

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "hello", Token: "garbage"}); err != nil {
		t.Fatalf("send hello: %v", err)
	}

	var frame outboundFrame
	if err := websocket.JSON.Receive(conn, &frame); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if frame.Type != "error" {
		t.Fatalf("expected an error frame, got %+v", frame)
	}
}

func TestInputFramesBecomeEvents(t *testing.T) {
	a := New(Config{Now: fixedClock})
	conn := dialAdapter(t, a)

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "hello", PlayerID: "alice"}); err != nil {
		t.Fatalf("send hello: %v", err)
	}
	receiveEvent(t, a) // PLAYER_JOINED

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "input", Text: "/create_room tavern"}); err != nil {
		t.Fatalf("send input: %v", err)
	}
	evt := receiveEvent(t, a)
	if evt.Type != event.TypeCreateRoom {
		t.Fatalf("expected CREATE_ROOM, got %s", evt.Type)
	}

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "input", Text: "draw my sword"}); err != nil {
		t.Fatalf("send input: %v", err)
	}
	evt = receiveEvent(t, a)
	if evt.Type != event.TypePlayerAction {
		t.Fatalf("expected PLAYER_ACTION, got %s", evt.Type)
	}
}

func TestSendReachesConnectedPlayer(t *testing.T) {
	a := New(Config{Now: fixedClock})
	conn := dialAdapter(t, a)

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "hello", PlayerID: "alice"}); err != nil {
		t.Fatalf("send hello: %v", err)
	}
	receiveEvent(t, a) // connection registered once PLAYER_JOINED is queued

	if err := a.Send(event.Message{Recipient: "alice", Content: "welcome to the table"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	var frame outboundFrame
	if err := websocket.JSON.Receive(conn, &frame); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if frame.Type != "message" || frame.Content != "welcome to the table" {
		t.Fatalf("frame %+v, want the welcome message", frame)
	}
}

func TestSendToUnknownPlayerIsNoop(t *testing.T) {
	a := New(Config{Now: fixedClock})
	if err := a.Send(event.Message{Recipient: "ghost", Content: "hello?"}); err != nil {
		t.Fatalf("send to absent player should not error: %v", err)
	}
}

func TestUnknownCommandGetsErrorFrame(t *testing.T) {
	a := New(Config{Now: fixedClock})
	conn := dialAdapter(t, a)

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "hello", PlayerID: "alice"}); err != nil {
		t.Fatalf("send hello: %v", err)
	}
	receiveEvent(t, a)

	if err := websocket.JSON.Send(conn, inboundFrame{Type: "input", Text: "/teleport home"}); err != nil {
		t.Fatalf("send input: %v", err)
	}
	var frame outboundFrame
	if err := websocket.JSON.Receive(conn, &frame); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if frame.Type != "error" || !strings.Contains(frame.Content, "/teleport") {
		t.Fatalf("expected unknown-command error, got %+v", frame)
	}
}
