package service

import (
	"context"
	"log"
	"math/rand"
	"strings"

	apperrors "github.com/louisbranch/fableroom/internal/errors"
	"github.com/louisbranch/fableroom/internal/event"
	gamecontext "github.com/louisbranch/fableroom/internal/game/context"
	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/i18n"
	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

// RoomService manages room membership: creation, joining, leaving, and the
// player-to-room index.
type RoomService struct {
	registry *Registry
	printer  *i18n.Printer
	users    storage.UserStore
	emitter  *telemetry.Emitter
}

// NewRoomService wires a room service. users may be nil when the host runs
// without persistence.
func NewRoomService(registry *Registry, printer *i18n.Printer, users storage.UserStore, emitter *telemetry.Emitter) *RoomService {
	return &RoomService{registry: registry, printer: printer, users: users, emitter: emitter}
}

// Welcome greets a newly connected player and refreshes their user record.
func (s *RoomService) Welcome(ctx context.Context, playerID, name string) []event.Result {
	s.recordUser(ctx, playerID, name)
	display := strings.TrimSpace(name)
	if display == "" {
		display = playerID
	}
	return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyWelcome, display))}
}

// CreateRoom opens a new room with the acting player as host.
func (s *RoomService) CreateRoom(ctx context.Context, playerID, playerName, roomName string) ([]event.Result, error) {
	if roomID, ok := s.registry.RoomIDForPlayer(playerID); ok {
		return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyAlreadyInRoom, roomID))}, nil
	}

	room, err := domain.CreateRoom(domain.CreateRoomInput{Name: roomName}, s.registry.Clock(), nil)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Insert(room); err != nil {
		return nil, err
	}

	var results []event.Result
	err = s.registry.WithRoom(room.ID, func(r *domain.Room, rng *rand.Rand) error {
		roomCtx := gamecontext.NewRoomContext(r, s.registry.Clock(), rng)
		if _, err := roomCtx.AddPlayer(playerID, playerName); err != nil {
			return err
		}
		results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyRoomCreated, r.Name, r.ID)))
		return nil
	})
	if err != nil {
		s.registry.Destroy(room.ID)
		return nil, err
	}

	s.registry.BindPlayer(playerID, room.ID)
	s.recordUser(ctx, playerID, playerName)
	s.emitter.Emit(ctx, telemetry.KindRoomCreated, room.ID, playerID, roomName)
	return results, nil
}

// JoinRoom adds a player to an existing room, announcing the join to the
// other players. Joining a room the player is already in is idempotent;
// joining while a member of a different room is refused so the old room
// never keeps a ghost member.
func (s *RoomService) JoinRoom(ctx context.Context, playerID, playerName, roomID string) ([]event.Result, error) {
	if current, ok := s.registry.RoomIDForPlayer(playerID); ok && current != roomID {
		return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyAlreadyInRoom, current))}, nil
	}

	var results []event.Result
	err := s.registry.WithRoom(roomID, func(r *domain.Room, rng *rand.Rand) error {
		roomCtx := gamecontext.NewRoomContext(r, s.registry.Clock(), rng)
		already := r.Player(playerID) != nil
		player, err := roomCtx.AddPlayer(playerID, playerName)
		if err != nil {
			return err
		}
		results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyRoomJoinedSelf, r.Name)))
		if !already {
			for _, other := range r.Players {
				if other.ID != player.ID {
					results = append(results, event.MessageResult(other.ID, s.printer.T(i18n.KeyRoomJoinedOther, player.Name)))
				}
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeRoomNotFound {
			return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyRoomNotFound, roomID))}, nil
		}
		return nil, err
	}

	s.registry.BindPlayer(playerID, roomID)
	s.recordUser(ctx, playerID, playerName)
	return results, nil
}

// LeaveRoom removes a player from their room. When the host leaves, a new
// host is drawn at random from the remaining players; when the last player
// leaves, the room is destroyed immediately.
func (s *RoomService) LeaveRoom(ctx context.Context, playerID string) ([]event.Result, error) {
	roomID, ok := s.registry.RoomIDForPlayer(playerID)
	if !ok {
		return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyNotInRoom))}, nil
	}

	var (
		results []event.Result
		empty   bool
	)
	err := s.registry.WithRoom(roomID, func(r *domain.Room, rng *rand.Rand) error {
		roomCtx := gamecontext.NewRoomContext(r, s.registry.Clock(), rng)
		leaving := r.Player(playerID)
		if leaving == nil {
			return nil
		}
		leavingName := leaving.Name
		removed, wasHost := roomCtx.RemovePlayer(playerID)
		if !removed {
			return nil
		}
		for _, other := range r.Players {
			results = append(results, event.MessageResult(other.ID, s.printer.T(i18n.KeyRoomLeft, leavingName)))
		}
		if wasHost {
			if host := r.Host(); host != nil {
				for _, other := range r.Players {
					results = append(results, event.MessageResult(other.ID, s.printer.T(i18n.KeyHostChanged, host.Name)))
				}
			}
		}
		empty = len(r.Players) == 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.registry.UnbindPlayer(playerID)
	if empty {
		s.registry.Destroy(roomID)
		s.emitter.Emit(ctx, telemetry.KindRoomDestroyed, roomID, playerID, "last player left")
	}
	return results, nil
}

// ListRooms replies with the open room list.
func (s *RoomService) ListRooms(playerID string) []event.Result {
	summaries := s.registry.ListRooms()
	if len(summaries) == 0 {
		return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyRoomsNone))}
	}
	lines := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		lines = append(lines, s.printer.T(i18n.KeyRoomsEntry, summary.ID, summary.Name, summary.Players))
	}
	return []event.Result{event.MessageResult(playerID, strings.Join(lines, "\n"))}
}

func (s *RoomService) recordUser(ctx context.Context, playerID, name string) {
	if s.users == nil {
		return
	}
	now := s.registry.Now().UTC()
	err := s.users.UpsertUser(ctx, storage.UserRecord{
		ID:          playerID,
		Name:        name,
		FirstSeenAt: now,
		LastSeenAt:  now,
	})
	if err != nil {
		log.Printf("room service: upsert user %s: %v", playerID, err)
	}
}
