package ws

import (
	"testing"

	"github.com/louisbranch/fableroom/internal/event"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantType event.Type
	}{
		{"create room", "/create_room The Tavern", event.TypeCreateRoom},
		{"create room chinese", "/创建房间 酒馆", event.TypeCreateRoom},
		{"join room", "/join_room abc123", event.TypeJoinRoom},
		{"join room chinese", "/加入房间 abc123", event.TypeJoinRoom},
		{"leave room", "/leave_room", event.TypeLeaveRoom},
		{"list rooms", "/list_rooms", event.TypeListRooms},
		{"scenario", "/scenario haunted-manor", event.TypeSetScenario},
		{"scenario chinese", "/剧本 haunted-manor", event.TypeSetScenario},
		{"character", "/character Scholar", event.TypeSelectCharacter},
		{"start", "/start", event.TypeStartMatch},
		{"end with result", "/end we gave up", event.TypeEndMatch},
		{"pause", "/pause", event.TypePauseMatch},
		{"resume", "/resume", event.TypeResumeMatch},
		{"free text", "I search the bookshelf", event.TypePlayerAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := parseInput("alice", "Alice", tt.text)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.text, err)
			}
			if evt.Type != tt.wantType {
				t.Fatalf("parse %q: type %s, want %s", tt.text, evt.Type, tt.wantType)
			}
			if evt.PlayerID != "alice" {
				t.Fatalf("parse %q: player id %q, want alice", tt.text, evt.PlayerID)
			}
		})
	}
}

func TestParseInputArguments(t *testing.T) {
	evt, err := parseInput("alice", "Alice", "/create_room The Rusty Nail")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	payload := evt.Payload.(event.CreateRoomPayload)
	if payload.RoomName != "The Rusty Nail" {
		t.Fatalf("room name %q, want The Rusty Nail", payload.RoomName)
	}

	evt, err = parseInput("alice", "Alice", "/end the dragon wins")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	end := evt.Payload.(event.EndMatchPayload)
	if end.Result != "the dragon wins" {
		t.Fatalf("result %q, want the dragon wins", end.Result)
	}
}

func TestParseInputErrors(t *testing.T) {
	for _, text := range []string{"", "   ", "/create_room", "/join_room", "/scenario", "/character", "/teleport home"} {
		if _, err := parseInput("alice", "Alice", text); err == nil {
			t.Errorf("parse %q: expected an error", text)
		}
	}
}

func TestParseInputActionText(t *testing.T) {
	evt, err := parseInput("alice", "Alice", "  open the door quietly  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	payload := evt.Payload.(event.PlayerActionPayload)
	if payload.Action != "open the door quietly" {
		t.Fatalf("action %q not trimmed", payload.Action)
	}
}
