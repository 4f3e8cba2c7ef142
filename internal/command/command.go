// Package command maps dispatched events to the service operations that
// execute them. Each command is a thin adapter: it unpacks the event payload
// and delegates to a service, returning the messages and follow-up events
// the service produced.
package command

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/fableroom/internal/errors"
	"github.com/louisbranch/fableroom/internal/event"
	"github.com/louisbranch/fableroom/internal/game/service"
)

// Command executes one event against the game state.
type Command interface {
	Execute(ctx context.Context, evt event.Event) ([]event.Result, error)
}

// Services bundles the service layer the commands delegate to.
type Services struct {
	Rooms   *service.RoomService
	Matches *service.MatchService
	Turns   *service.TurnService
}

// Factory resolves events to commands by type.
type Factory struct {
	commands map[event.Type]Command
}

// NewFactory builds the factory with every supported event type bound.
func NewFactory(services Services) *Factory {
	return &Factory{commands: map[event.Type]Command{
		event.TypePlayerJoined:    playerJoinedCommand{services.Rooms},
		event.TypeCreateRoom:      createRoomCommand{services.Rooms},
		event.TypeJoinRoom:        joinRoomCommand{services.Rooms},
		event.TypeLeaveRoom:       leaveRoomCommand{services.Rooms},
		event.TypeListRooms:       listRoomsCommand{services.Rooms},
		event.TypeSetScenario:     setScenarioCommand{services.Matches},
		event.TypeSelectCharacter: selectCharacterCommand{services.Matches},
		event.TypeStartMatch:      startMatchCommand{services.Matches},
		event.TypeEndMatch:        endMatchCommand{services.Matches},
		event.TypePauseMatch:      pauseMatchCommand{services.Matches},
		event.TypeResumeMatch:     resumeMatchCommand{services.Matches},
		event.TypePlayerAction:    playerActionCommand{services.Turns},
		event.TypeDMNarration:     dmNarrationCommand{services.Turns},
	}}
}

// Types returns every event type the factory can resolve.
func (f *Factory) Types() []event.Type {
	types := make([]event.Type, 0, len(f.commands))
	for eventType := range f.commands {
		types = append(types, eventType)
	}
	return types
}

// Create returns the command bound to the event type, or an UNKNOWN_EVENT
// error.
func (f *Factory) Create(evt event.Event) (Command, error) {
	cmd, ok := f.commands[evt.Type]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownEvent, "no command for event type", map[string]string{
			"type": string(evt.Type),
		})
	}
	return cmd, nil
}

// payloadError reports an event carrying the wrong payload type. It is an
// internal wiring bug, not a user mistake.
func payloadError(evt event.Event) error {
	return fmt.Errorf("event %s carries unexpected payload %T", evt.Type, evt.Payload)
}

type playerJoinedCommand struct{ rooms *service.RoomService }

func (c playerJoinedCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.PlayerJoinedPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.rooms.Welcome(ctx, payload.PlayerID, payload.Name), nil
}

type createRoomCommand struct{ rooms *service.RoomService }

func (c createRoomCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.CreateRoomPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.rooms.CreateRoom(ctx, payload.PlayerID, payload.Name, payload.RoomName)
}

type joinRoomCommand struct{ rooms *service.RoomService }

func (c joinRoomCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.JoinRoomPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.rooms.JoinRoom(ctx, payload.PlayerID, payload.Name, payload.RoomID)
}

type leaveRoomCommand struct{ rooms *service.RoomService }

func (c leaveRoomCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	return c.rooms.LeaveRoom(ctx, evt.PlayerID)
}

type listRoomsCommand struct{ rooms *service.RoomService }

func (c listRoomsCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	return c.rooms.ListRooms(evt.PlayerID), nil
}

type setScenarioCommand struct{ matches *service.MatchService }

func (c setScenarioCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.SetScenarioPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.matches.SetScenario(ctx, payload.PlayerID, payload.ScenarioID)
}

type selectCharacterCommand struct{ matches *service.MatchService }

func (c selectCharacterCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.SelectCharacterPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.matches.SelectCharacter(payload.PlayerID, payload.CharacterName)
}

type startMatchCommand struct{ matches *service.MatchService }

func (c startMatchCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	return c.matches.StartMatch(ctx, evt.PlayerID)
}

type endMatchCommand struct{ matches *service.MatchService }

func (c endMatchCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.EndMatchPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.matches.EndMatch(ctx, payload.PlayerID, payload.Result)
}

type pauseMatchCommand struct{ matches *service.MatchService }

func (c pauseMatchCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	return c.matches.PauseMatch(evt.PlayerID)
}

type resumeMatchCommand struct{ matches *service.MatchService }

func (c resumeMatchCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	return c.matches.ResumeMatch(evt.PlayerID)
}

type playerActionCommand struct{ turns *service.TurnService }

func (c playerActionCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	payload, ok := evt.Payload.(event.PlayerActionPayload)
	if !ok {
		return nil, payloadError(evt)
	}
	return c.turns.HandlePlayerAction(ctx, payload.PlayerID, payload.Action)
}

type dmNarrationCommand struct{ turns *service.TurnService }

func (c dmNarrationCommand) Execute(ctx context.Context, evt event.Event) ([]event.Result, error) {
	return c.turns.Narrate(ctx, evt.RoomID)
}
