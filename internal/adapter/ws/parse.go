package ws

import (
	"fmt"
	"strings"

	"github.com/louisbranch/fableroom/internal/event"
)

// commandSpec binds a slash command and its aliases to an event builder.
type commandSpec struct {
	names []string
	build func(playerID, name, arg string) (event.Event, error)
}

var commandSpecs = []commandSpec{
	{
		names: []string{"/create_room", "/创建房间"},
		build: func(playerID, name, arg string) (event.Event, error) {
			if arg == "" {
				return event.Event{}, fmt.Errorf("usage: /create_room <name>")
			}
			return event.New(event.TypeCreateRoom, event.CreateRoomPayload{PlayerID: playerID, Name: name, RoomName: arg}), nil
		},
	},
	{
		names: []string{"/join_room", "/加入房间"},
		build: func(playerID, name, arg string) (event.Event, error) {
			if arg == "" {
				return event.Event{}, fmt.Errorf("usage: /join_room <id>")
			}
			return event.New(event.TypeJoinRoom, event.JoinRoomPayload{PlayerID: playerID, Name: name, RoomID: arg}), nil
		},
	},
	{
		names: []string{"/leave_room", "/离开房间"},
		build: func(playerID, name, arg string) (event.Event, error) {
			return event.New(event.TypeLeaveRoom, event.LeaveRoomPayload{PlayerID: playerID}), nil
		},
	},
	{
		names: []string{"/list_rooms", "/房间列表"},
		build: func(playerID, name, arg string) (event.Event, error) {
			return event.New(event.TypeListRooms, event.ListRoomsPayload{PlayerID: playerID}), nil
		},
	},
	{
		names: []string{"/scenario", "/剧本"},
		build: func(playerID, name, arg string) (event.Event, error) {
			if arg == "" {
				return event.Event{}, fmt.Errorf("usage: /scenario <id>")
			}
			return event.New(event.TypeSetScenario, event.SetScenarioPayload{PlayerID: playerID, ScenarioID: arg}), nil
		},
	},
	{
		names: []string{"/character", "/角色"},
		build: func(playerID, name, arg string) (event.Event, error) {
			if arg == "" {
				return event.Event{}, fmt.Errorf("usage: /character <name>")
			}
			return event.New(event.TypeSelectCharacter, event.SelectCharacterPayload{PlayerID: playerID, CharacterName: arg}), nil
		},
	},
	{
		names: []string{"/start", "/开始"},
		build: func(playerID, name, arg string) (event.Event, error) {
			return event.New(event.TypeStartMatch, event.StartMatchPayload{PlayerID: playerID, Name: name}), nil
		},
	},
	{
		names: []string{"/end", "/结束"},
		build: func(playerID, name, arg string) (event.Event, error) {
			return event.New(event.TypeEndMatch, event.EndMatchPayload{PlayerID: playerID, Name: name, Result: arg}), nil
		},
	},
	{
		names: []string{"/pause", "/暂停"},
		build: func(playerID, name, arg string) (event.Event, error) {
			return event.New(event.TypePauseMatch, event.PauseMatchPayload{PlayerID: playerID}), nil
		},
	},
	{
		names: []string{"/resume", "/继续"},
		build: func(playerID, name, arg string) (event.Event, error) {
			return event.New(event.TypeResumeMatch, event.ResumeMatchPayload{PlayerID: playerID}), nil
		},
	},
}

// parseInput turns one line of player input into a game event. Text that
// does not start with a slash is a free-form action submission; unknown
// slash commands are an error the adapter reports back to the sender.
func parseInput(playerID, name, text string) (event.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return event.Event{}, fmt.Errorf("empty input")
	}
	if !strings.HasPrefix(text, "/") {
		return event.New(event.TypePlayerAction, event.PlayerActionPayload{PlayerID: playerID, Action: text}), nil
	}

	verb, arg := splitCommand(text)
	for _, spec := range commandSpecs {
		for _, candidate := range spec.names {
			if verb == candidate {
				return spec.build(playerID, name, arg)
			}
		}
	}
	return event.Event{}, fmt.Errorf("unknown command %s", verb)
}

// splitCommand separates the command verb from its argument text.
func splitCommand(text string) (verb, arg string) {
	verb, arg, _ = strings.Cut(text, " ")
	return verb, strings.TrimSpace(arg)
}
