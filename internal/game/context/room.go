package context

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/louisbranch/fableroom/internal/game/domain"
)

// RoomContext exposes validated mutations over a single room.
type RoomContext struct {
	Room *domain.Room

	now func() time.Time
	rng *rand.Rand
}

// NewRoomContext wraps a room. A nil now defaults to time.Now; a nil rng
// defaults to a source seeded from the current time.
func NewRoomContext(room *domain.Room, now func() time.Time, rng *rand.Rand) *RoomContext {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RoomContext{Room: room, now: now, rng: rng}
}

// AddPlayer adds a player to the room. The call is idempotent: when the id
// is already present the existing player is returned unchanged. The first
// player to join an empty room becomes host.
func (c *RoomContext) AddPlayer(playerID, name string) (*domain.Player, error) {
	if playerID == "" {
		return nil, domain.ErrEmptyPlayerID
	}
	if existing := c.Room.Player(playerID); existing != nil {
		return existing, nil
	}

	player := domain.Player{
		ID:       playerID,
		Name:     name,
		JoinedAt: c.now().UTC(),
	}
	if len(c.Room.Players) == 0 {
		player.IsHost = true
		c.Room.HostID = playerID
	}
	c.Room.Players = append(c.Room.Players, player)
	return c.Room.Player(playerID), nil
}

// KickPlayer removes the named player from the room and returns the removed
// record. The host cannot be kicked; kicking the host or an absent player is
// a no-op returning nil.
func (c *RoomContext) KickPlayer(playerID string) *domain.Player {
	if playerID == "" || playerID == c.Room.HostID {
		return nil
	}
	target := c.Room.Player(playerID)
	if target == nil {
		return nil
	}
	removed := *target
	c.removePlayer(playerID)
	return &removed
}

// RemovePlayer takes a player out of the room, reassigning the host when the
// host leaves and other players remain. It reports whether a player was
// removed and whether that player was the host.
func (c *RoomContext) RemovePlayer(playerID string) (removed bool, wasHost bool) {
	target := c.Room.Player(playerID)
	if target == nil {
		return false, false
	}
	wasHost = target.IsHost
	c.removePlayer(playerID)
	if wasHost {
		c.Room.HostID = ""
		if len(c.Room.Players) > 0 {
			c.AssignNewHost()
		}
	}
	return true, wasHost
}

// AssignNewHost promotes a player chosen uniformly at random from the
// current players. Any previous host flag is cleared first so at most one
// player holds the flag. Returns nil when the room is empty.
func (c *RoomContext) AssignNewHost() *domain.Player {
	if len(c.Room.Players) == 0 {
		c.Room.HostID = ""
		return nil
	}
	for i := range c.Room.Players {
		c.Room.Players[i].IsHost = false
	}
	pick := c.rng.Intn(len(c.Room.Players))
	c.Room.Players[pick].IsHost = true
	c.Room.HostID = c.Room.Players[pick].ID
	return &c.Room.Players[pick]
}

// SetSetting stores a room setting.
func (c *RoomContext) SetSetting(key, value string) {
	if c.Room.Settings == nil {
		c.Room.Settings = make(map[string]string)
	}
	c.Room.Settings[key] = value
}

// AppendMatch adds a match to the room's history and marks it current.
func (c *RoomContext) AppendMatch(match domain.Match) *domain.Match {
	c.Room.Matches = append(c.Room.Matches, match)
	c.Room.CurrentMatchID = match.ID
	return &c.Room.Matches[len(c.Room.Matches)-1]
}

// IsHost reports whether the given player currently hosts the room.
func (c *RoomContext) IsHost(playerID string) bool {
	return playerID != "" && c.Room.HostID == playerID
}

func (c *RoomContext) removePlayer(playerID string) {
	players := c.Room.Players[:0]
	for _, player := range c.Room.Players {
		if player.ID != playerID {
			players = append(players, player)
		}
	}
	c.Room.Players = players
}

// String describes the room for logs.
func (c *RoomContext) String() string {
	return fmt.Sprintf("room %s (%d players)", c.Room.ID, len(c.Room.Players))
}
