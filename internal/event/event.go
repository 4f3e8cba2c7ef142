// Package event defines the inbound game event taxonomy and the in-process
// publish/subscribe bus that fans events out to observers.
package event

import "time"

// Type identifies the type of a game event.
type Type string

// Session events delivered by adapters.
const (
	// TypePlayerJoined records a player connecting to the host.
	TypePlayerJoined Type = "PLAYER_JOINED"
	// TypeCreateRoom asks for a new room with the sender as host.
	TypeCreateRoom Type = "CREATE_ROOM"
	// TypeJoinRoom asks to join an existing room by id.
	TypeJoinRoom Type = "JOIN_ROOM"
	// TypeLeaveRoom asks to leave the sender's current room.
	TypeLeaveRoom Type = "LEAVE_ROOM"
	// TypeListRooms asks for the open room list.
	TypeListRooms Type = "LIST_ROOMS"
)

// Match setup and lifecycle events.
const (
	// TypeSetScenario binds a scenario to the room's pending match.
	TypeSetScenario Type = "SET_SCENARIO"
	// TypeSelectCharacter picks a character template for the sender.
	TypeSelectCharacter Type = "SELECT_CHARACTER"
	// TypeStartMatch starts the room's pending match.
	TypeStartMatch Type = "START_MATCH"
	// TypeEndMatch finishes the room's current match.
	TypeEndMatch Type = "END_MATCH"
	// TypePauseMatch suspends the room's running match.
	TypePauseMatch Type = "PAUSE_MATCH"
	// TypeResumeMatch continues the room's paused match.
	TypeResumeMatch Type = "RESUME_MATCH"
)

// Turn events.
const (
	// TypePlayerAction submits one player's free-text action or dice check.
	TypePlayerAction Type = "PLAYER_ACTION"
	// TypeDMNarration asks the DM to narrate the next beat of a room's match.
	// Emitted as a follow-up when a player turn completes, never by adapters.
	TypeDMNarration Type = "DM_NARRATION"
)

// Event is one inbound request or follow-up flowing through the bus and the
// command factory.
//
// PlayerID identifies the acting player when one exists; the coordinator
// uses it to route best-effort error messages. RoomID is set on events that
// target a room directly rather than a player (DM narration).
type Event struct {
	Type      Type
	Timestamp time.Time
	PlayerID  string
	RoomID    string
	Payload   any
}

// PlayerJoinedPayload carries the payload for PLAYER_JOINED events.
type PlayerJoinedPayload struct {
	PlayerID string
	Name     string
}

// CreateRoomPayload carries the payload for CREATE_ROOM events.
type CreateRoomPayload struct {
	PlayerID string
	Name     string
	RoomName string
}

// JoinRoomPayload carries the payload for JOIN_ROOM events.
type JoinRoomPayload struct {
	PlayerID string
	Name     string
	RoomID   string
}

// LeaveRoomPayload carries the payload for LEAVE_ROOM events.
type LeaveRoomPayload struct {
	PlayerID string
}

// ListRoomsPayload carries the payload for LIST_ROOMS events.
type ListRoomsPayload struct {
	PlayerID string
}

// SetScenarioPayload carries the payload for SET_SCENARIO events.
type SetScenarioPayload struct {
	PlayerID   string
	ScenarioID string
}

// SelectCharacterPayload carries the payload for SELECT_CHARACTER events.
type SelectCharacterPayload struct {
	PlayerID      string
	CharacterName string
}

// StartMatchPayload carries the payload for START_MATCH events.
type StartMatchPayload struct {
	PlayerID string
	Name     string
}

// EndMatchPayload carries the payload for END_MATCH events.
type EndMatchPayload struct {
	PlayerID string
	Name     string
	Result   string
}

// PauseMatchPayload carries the payload for PAUSE_MATCH events.
type PauseMatchPayload struct {
	PlayerID string
}

// ResumeMatchPayload carries the payload for RESUME_MATCH events.
type ResumeMatchPayload struct {
	PlayerID string
}

// PlayerActionPayload carries the payload for PLAYER_ACTION events.
type PlayerActionPayload struct {
	PlayerID string
	Action   string
}

// DMNarrationPayload carries the payload for DM_NARRATION events. Narration
// is optional: when empty the DM consults the AI narrator.
type DMNarrationPayload struct {
	RoomID    string
	Narration string
}

// New builds an event of the given type, stamping PlayerID and RoomID from
// the payload so routing never needs a type switch at the call site.
func New(eventType Type, payload any) Event {
	evt := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	switch p := payload.(type) {
	case PlayerJoinedPayload:
		evt.PlayerID = p.PlayerID
	case CreateRoomPayload:
		evt.PlayerID = p.PlayerID
	case JoinRoomPayload:
		evt.PlayerID = p.PlayerID
		evt.RoomID = p.RoomID
	case LeaveRoomPayload:
		evt.PlayerID = p.PlayerID
	case ListRoomsPayload:
		evt.PlayerID = p.PlayerID
	case SetScenarioPayload:
		evt.PlayerID = p.PlayerID
	case SelectCharacterPayload:
		evt.PlayerID = p.PlayerID
	case StartMatchPayload:
		evt.PlayerID = p.PlayerID
	case EndMatchPayload:
		evt.PlayerID = p.PlayerID
	case PauseMatchPayload:
		evt.PlayerID = p.PlayerID
	case ResumeMatchPayload:
		evt.PlayerID = p.PlayerID
	case PlayerActionPayload:
		evt.PlayerID = p.PlayerID
	case DMNarrationPayload:
		evt.RoomID = p.RoomID
	}
	return evt
}
