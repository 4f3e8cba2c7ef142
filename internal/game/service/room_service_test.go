package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

func TestCreateRoomBindsHost(t *testing.T) {
	f := newFixture(t)
	results, err := f.rooms.CreateRoom(context.Background(), "alice", "Alice", "tavern")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	roomID, ok := f.registry.RoomIDForPlayer("alice")
	if !ok {
		t.Fatal("host not bound to the new room")
	}
	if !hasMessage(results, "alice", roomID) {
		t.Fatalf("confirmation should name the room id, got %v", messagesFor(results, "alice"))
	}

	var isHost bool
	err = f.registry.WithRoom(roomID, func(room *domain.Room, rng *rand.Rand) error {
		isHost = room.HostID == "alice"
		return nil
	})
	if err != nil {
		t.Fatalf("with room: %v", err)
	}
	if !isHost {
		t.Fatal("creator should host the new room")
	}
}

func TestCreateRoomWhileInRoomRefused(t *testing.T) {
	f := newFixture(t)
	f.createRoom(t, "alice")

	results, err := f.rooms.CreateRoom(context.Background(), "alice", "Alice", "second")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if !hasMessage(results, "alice", "already in room") {
		t.Fatalf("expected refusal, got %v", messagesFor(results, "alice"))
	}
	if len(f.registry.ListRooms()) != 1 {
		t.Fatalf("expected 1 room, got %d", len(f.registry.ListRooms()))
	}
}

func TestJoinRoomAnnouncesToOthers(t *testing.T) {
	f := newFixture(t)
	roomID := f.createRoom(t, "alice")

	results, err := f.rooms.JoinRoom(context.Background(), "bob", "Bob", roomID)
	if err != nil {
		t.Fatalf("join room: %v", err)
	}
	if len(messagesFor(results, "bob")) == 0 {
		t.Fatal("joiner should be confirmed")
	}
	if !hasMessage(results, "alice", "Bob") {
		t.Fatalf("existing players should learn the joiner's name, got %v", messagesFor(results, "alice"))
	}
}

func TestJoinRoomIdempotent(t *testing.T) {
	f := newFixture(t)
	roomID := f.createRoom(t, "alice", "bob")

	results, err := f.rooms.JoinRoom(context.Background(), "bob", "Bob", roomID)
	if err != nil {
		t.Fatalf("rejoin room: %v", err)
	}
	if len(messagesFor(results, "alice")) != 0 {
		t.Fatalf("rejoin should not be announced, got %v", messagesFor(results, "alice"))
	}
}

func TestJoinRoomWhileInOtherRoomRefused(t *testing.T) {
	f := newFixture(t)
	roomA := f.createRoom(t, "alice")
	roomB := f.createRoom(t, "bob")

	results, err := f.rooms.JoinRoom(context.Background(), "alice", "Alice", roomB)
	if err != nil {
		t.Fatalf("join room: %v", err)
	}
	if !hasMessage(results, "alice", "already in room") {
		t.Fatalf("expected refusal, got %v", messagesFor(results, "alice"))
	}

	bound, ok := f.registry.RoomIDForPlayer("alice")
	if !ok || bound != roomA {
		t.Fatalf("alice should stay bound to %s, got %s", roomA, bound)
	}
	err = f.registry.WithRoom(roomB, func(room *domain.Room, rng *rand.Rand) error {
		if room.Player("alice") != nil {
			t.Fatal("alice should not be a member of the second room")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with room: %v", err)
	}
	err = f.registry.WithRoom(roomA, func(room *domain.Room, rng *rand.Rand) error {
		if room.Player("alice") == nil || room.HostID != "alice" {
			t.Fatal("alice should still host her original room")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with room: %v", err)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	f := newFixture(t)
	results, err := f.rooms.JoinRoom(context.Background(), "bob", "Bob", "missing")
	if err != nil {
		t.Fatalf("join room: %v", err)
	}
	if !hasMessage(results, "bob", "missing") {
		t.Fatalf("expected not-found message naming the id, got %v", messagesFor(results, "bob"))
	}
}

func TestLeaveRoomReassignsHost(t *testing.T) {
	f := newFixture(t)
	roomID := f.createRoom(t, "alice", "bob")

	results, err := f.rooms.LeaveRoom(context.Background(), "alice")
	if err != nil {
		t.Fatalf("leave room: %v", err)
	}
	if !hasMessage(results, "bob", "host") {
		t.Fatalf("remaining player should learn the new host, got %v", messagesFor(results, "bob"))
	}

	var hostID string
	err = f.registry.WithRoom(roomID, func(room *domain.Room, rng *rand.Rand) error {
		hostID = room.HostID
		return nil
	})
	if err != nil {
		t.Fatalf("with room: %v", err)
	}
	if hostID != "bob" {
		t.Fatalf("expected bob as host, got %q", hostID)
	}
}

func TestLastPlayerLeavingDestroysRoom(t *testing.T) {
	f := newFixture(t)
	f.createRoom(t, "alice")

	if _, err := f.rooms.LeaveRoom(context.Background(), "alice"); err != nil {
		t.Fatalf("leave room: %v", err)
	}
	if len(f.registry.ListRooms()) != 0 {
		t.Fatal("empty room should be destroyed")
	}

	found := false
	for _, evt := range f.store.TelemetryEvents() {
		if evt.Kind == telemetry.KindRoomDestroyed {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a room-destroyed telemetry event")
	}
}

func TestLeaveWithoutRoom(t *testing.T) {
	f := newFixture(t)
	results, err := f.rooms.LeaveRoom(context.Background(), "alice")
	if err != nil {
		t.Fatalf("leave room: %v", err)
	}
	if len(messagesFor(results, "alice")) == 0 {
		t.Fatal("expected a not-in-room message")
	}
}

func TestListRoomsEmptyAndPopulated(t *testing.T) {
	f := newFixture(t)
	results := f.rooms.ListRooms("alice")
	if len(messagesFor(results, "alice")) != 1 {
		t.Fatal("expected a no-rooms message")
	}

	roomID := f.createRoom(t, "bob")
	results = f.rooms.ListRooms("alice")
	if !hasMessage(results, "alice", roomID) {
		t.Fatalf("listing should include %s, got %v", roomID, messagesFor(results, "alice"))
	}
}

func TestWelcomeRecordsUser(t *testing.T) {
	f := newFixture(t)
	results := f.rooms.Welcome(context.Background(), "alice", "Alice")
	if !hasMessage(results, "alice", "Alice") {
		t.Fatalf("welcome should greet by name, got %v", messagesFor(results, "alice"))
	}
	user, err := f.store.GetUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Name != "Alice" {
		t.Fatalf("stored name %q, want Alice", user.Name)
	}
}
