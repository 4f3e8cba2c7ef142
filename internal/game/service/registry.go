package service

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	apperrors "github.com/louisbranch/fableroom/internal/errors"
	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/random"
)

// Registry is the single owner of live game state: every room by id plus
// the player-to-room index. All mutation runs through WithRoom, which
// serializes access per room; the registry lock only guards the maps and is
// never held while a room lock is held by a caller.
type Registry struct {
	mu         sync.Mutex
	rooms      map[string]*roomEntry
	playerRoom map[string]string
	now        func() time.Time
}

type roomEntry struct {
	mu   sync.Mutex
	room domain.Room
	rng  *rand.Rand
}

// NewRegistry creates an empty registry. A nil now defaults to time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		rooms:      make(map[string]*roomEntry),
		playerRoom: make(map[string]string),
		now:        now,
	}
}

// Insert adds a room to the registry, seeding its random source from
// crypto/rand. Players already in the room are indexed.
func (r *Registry) Insert(room domain.Room) error {
	seed, err := random.NewSeed()
	if err != nil {
		return err
	}
	entry := &roomEntry{room: room, rng: rand.New(rand.NewSource(seed))}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = entry
	for _, player := range room.Players {
		r.playerRoom[player.ID] = room.ID
	}
	return nil
}

// WithRoom runs fn with exclusive access to the room and its random source.
// It returns a ROOM_NOT_FOUND error when the id is unknown.
func (r *Registry) WithRoom(roomID string, fn func(room *domain.Room, rng *rand.Rand) error) error {
	r.mu.Lock()
	entry, ok := r.rooms[roomID]
	r.mu.Unlock()
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeRoomNotFound, "room not found", map[string]string{"room": roomID})
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(&entry.room, entry.rng)
}

// WithPlayerRoom resolves the player's room through the index and runs fn
// with exclusive access to it. It returns a NOT_IN_ROOM error for unindexed
// players.
func (r *Registry) WithPlayerRoom(playerID string, fn func(room *domain.Room, rng *rand.Rand) error) error {
	roomID, ok := r.RoomIDForPlayer(playerID)
	if !ok {
		return apperrors.New(apperrors.CodeNotInRoom, "player is not in a room")
	}
	return r.WithRoom(roomID, fn)
}

// BindPlayer records which room a player is in.
func (r *Registry) BindPlayer(playerID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerRoom[playerID] = roomID
}

// UnbindPlayer removes a player from the index.
func (r *Registry) UnbindPlayer(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playerRoom, playerID)
}

// RoomIDForPlayer returns the room a player is indexed into.
func (r *Registry) RoomIDForPlayer(playerID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roomID, ok := r.playerRoom[playerID]
	return roomID, ok
}

// Destroy removes a room and unbinds any players still indexed into it.
func (r *Registry) Destroy(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
	for playerID, indexed := range r.playerRoom {
		if indexed == roomID {
			delete(r.playerRoom, playerID)
		}
	}
}

// RoomSummary describes one room for listings.
type RoomSummary struct {
	ID      string
	Name    string
	Players int
}

// ListRooms returns summaries of every live room ordered by id.
func (r *Registry) ListRooms() []RoomSummary {
	r.mu.Lock()
	entries := make([]*roomEntry, 0, len(r.rooms))
	for _, entry := range r.rooms {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	summaries := make([]RoomSummary, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		summaries = append(summaries, RoomSummary{
			ID:      entry.room.ID,
			Name:    entry.room.Name,
			Players: len(entry.room.Players),
		})
		entry.mu.Unlock()
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// Now exposes the registry clock so services share one time source.
func (r *Registry) Now() time.Time {
	return r.now()
}

// Clock returns the registry's time source.
func (r *Registry) Clock() func() time.Time {
	return r.now
}
