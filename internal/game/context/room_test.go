package context

import (
	"math/rand"
	"testing"
	"time"

	"github.com/louisbranch/fableroom/internal/game/domain"
)

func newTestRoom(t *testing.T) *domain.Room {
	t.Helper()
	room, err := domain.CreateRoom(domain.CreateRoomInput{Name: "The Long Table"}, nil, nil)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return &room
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

func TestAddPlayerIdempotent(t *testing.T) {
	room := newTestRoom(t)
	ctx := NewRoomContext(room, fixedClock, nil)

	first, err := ctx.AddPlayer("p1", "Ana")
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	again, err := ctx.AddPlayer("p1", "Ana Again")
	if err != nil {
		t.Fatalf("add player twice: %v", err)
	}
	if first.ID != again.ID || again.Name != "Ana" {
		t.Fatalf("expected same unchanged player, got %+v", again)
	}
	if len(room.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(room.Players))
	}
}

func TestFirstPlayerBecomesHost(t *testing.T) {
	room := newTestRoom(t)
	ctx := NewRoomContext(room, fixedClock, nil)

	if _, err := ctx.AddPlayer("p1", "Ana"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if _, err := ctx.AddPlayer("p2", "Bo"); err != nil {
		t.Fatalf("add second player: %v", err)
	}

	if room.HostID != "p1" {
		t.Fatalf("expected p1 as host, got %q", room.HostID)
	}
	if countHosts(room) != 1 {
		t.Fatalf("expected exactly one host flag, got %d", countHosts(room))
	}
}

func TestKickPlayer(t *testing.T) {
	room := newTestRoom(t)
	ctx := NewRoomContext(room, fixedClock, nil)
	mustAdd(t, ctx, "p1", "Ana")
	mustAdd(t, ctx, "p2", "Bo")

	if got := ctx.KickPlayer("p1"); got != nil {
		t.Fatalf("expected kicking host to fail, got %+v", got)
	}
	if got := ctx.KickPlayer("ghost"); got != nil {
		t.Fatalf("expected kicking absent player to fail, got %+v", got)
	}
	kicked := ctx.KickPlayer("p2")
	if kicked == nil || kicked.ID != "p2" {
		t.Fatalf("expected p2 kicked, got %+v", kicked)
	}
	if len(room.Players) != 1 {
		t.Fatalf("expected 1 player left, got %d", len(room.Players))
	}
}

func TestHostReassignmentOnLeave(t *testing.T) {
	room := newTestRoom(t)
	rng := rand.New(rand.NewSource(7))
	ctx := NewRoomContext(room, fixedClock, rng)
	mustAdd(t, ctx, "p1", "Ana")
	mustAdd(t, ctx, "p2", "Bo")
	mustAdd(t, ctx, "p3", "Cy")

	removed, wasHost := ctx.RemovePlayer("p1")
	if !removed || !wasHost {
		t.Fatalf("expected host removal, got removed=%v wasHost=%v", removed, wasHost)
	}
	if room.HostID != "p2" && room.HostID != "p3" {
		t.Fatalf("expected new host among remaining players, got %q", room.HostID)
	}
	if countHosts(room) != 1 {
		t.Fatalf("expected exactly one host flag, got %d", countHosts(room))
	}

	// All but the host leave: the survivor hosts.
	other := "p2"
	if room.HostID == "p2" {
		other = "p3"
	}
	if removed, _ := ctx.RemovePlayer(other); !removed {
		t.Fatalf("expected %s removed", other)
	}
	if len(room.Players) != 1 || !room.Players[0].IsHost {
		t.Fatalf("expected lone hosting survivor, got %+v", room.Players)
	}

	// Last player leaves: the room empties and the host reference clears.
	if removed, wasHost := ctx.RemovePlayer(room.HostID); !removed || !wasHost {
		t.Fatalf("expected final host removal")
	}
	if len(room.Players) != 0 || room.HostID != "" {
		t.Fatalf("expected empty room with no host, got players=%d host=%q", len(room.Players), room.HostID)
	}
}

func TestHostUniquenessUnderChurn(t *testing.T) {
	room := newTestRoom(t)
	rng := rand.New(rand.NewSource(99))
	ctx := NewRoomContext(room, fixedClock, rng)

	ids := []string{"p1", "p2", "p3", "p4", "p5"}
	for _, id := range ids {
		mustAdd(t, ctx, id, id)
	}
	for _, id := range []string{"p3", "p1", "p5", "p2", "p4"} {
		ctx.RemovePlayer(id)
		hosts := countHosts(room)
		if len(room.Players) == 0 {
			if hosts != 0 || room.HostID != "" {
				t.Fatalf("empty room still has host: flags=%d id=%q", hosts, room.HostID)
			}
			continue
		}
		if hosts != 1 {
			t.Fatalf("expected one host with %d players, got %d", len(room.Players), hosts)
		}
		if room.Player(room.HostID) == nil {
			t.Fatalf("host id %q not in room", room.HostID)
		}
	}
}

func mustAdd(t *testing.T, ctx *RoomContext, id, name string) {
	t.Helper()
	if _, err := ctx.AddPlayer(id, name); err != nil {
		t.Fatalf("add player %s: %v", id, err)
	}
}

func countHosts(room *domain.Room) int {
	count := 0
	for _, player := range room.Players {
		if player.IsHost {
			count++
		}
	}
	return count
}
