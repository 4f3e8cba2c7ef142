package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/fableroom/internal/ai"
	"github.com/louisbranch/fableroom/internal/event"
	"github.com/louisbranch/fableroom/internal/i18n"
	"github.com/louisbranch/fableroom/internal/scenario"
	"github.com/louisbranch/fableroom/internal/storage/memory"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testTime }

type stubNarrator struct {
	narration ai.Narration
	err       error
	calls     int
}

func (s *stubNarrator) Narrate(ctx context.Context, nc ai.NarrationContext) (ai.Narration, error) {
	s.calls++
	if s.err != nil {
		return ai.Narration{}, s.err
	}
	return s.narration, nil
}

type fixture struct {
	store    *memory.Store
	registry *Registry
	narrator *stubNarrator
	rooms    *RoomService
	matches  *MatchService
	turns    *TurnService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	registry := NewRegistry(fixedClock)
	printer := i18n.NewPrinter(i18n.BaseLocale)
	emitter := telemetry.NewEmitter(store, fixedClock)
	narrator := &stubNarrator{}
	return &fixture{
		store:    store,
		registry: registry,
		narrator: narrator,
		rooms:    NewRoomService(registry, printer, store, emitter),
		matches:  NewMatchService(registry, printer, store, emitter),
		turns:    NewTurnService(registry, printer, store, narrator, emitter),
	}
}

func testScenario() scenario.Scenario {
	return scenario.Scenario{
		ID:              "haunted-manor",
		Name:            "The Haunted Manor",
		MinPlayers:      1,
		MaxPlayers:      2,
		WorldBackground: "A manor on the moor, abandoned for decades.",
		MainScene:       "The entrance hall.",
		Templates: []scenario.CharacterTemplate{
			{Name: "Scholar", MaxHealth: 8, StartLocation: "entrance"},
			{Name: "Hunter", MaxHealth: 12, StartLocation: "entrance"},
		},
		Events: []scenario.NarrativeEvent{
			{Name: "Arrival", Description: "The players arrive at dusk."},
		},
	}
}

func (f *fixture) seedScenario(t *testing.T) scenario.Scenario {
	t.Helper()
	s := testScenario()
	if err := f.store.PutScenario(context.Background(), s); err != nil {
		t.Fatalf("seed scenario: %v", err)
	}
	return s
}

// createRoom creates a room hosted by the first player and joins the rest.
func (f *fixture) createRoom(t *testing.T, players ...string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.rooms.CreateRoom(ctx, players[0], players[0], "test room"); err != nil {
		t.Fatalf("create room: %v", err)
	}
	roomID, ok := f.registry.RoomIDForPlayer(players[0])
	if !ok {
		t.Fatal("host not bound to room")
	}
	for _, player := range players[1:] {
		if _, err := f.rooms.JoinRoom(ctx, player, player, roomID); err != nil {
			t.Fatalf("join room: %v", err)
		}
	}
	return roomID
}

// startMatch seeds the scenario, binds one template per player, and starts
// the match.
func (f *fixture) startMatch(t *testing.T, host string, players ...string) string {
	t.Helper()
	ctx := context.Background()
	f.seedScenario(t)
	roomID := f.createRoom(t, append([]string{host}, players...)...)

	if _, err := f.matches.SetScenario(ctx, host, "haunted-manor"); err != nil {
		t.Fatalf("set scenario: %v", err)
	}
	templates := []string{"Scholar", "Hunter"}
	for i, player := range append([]string{host}, players...) {
		if _, err := f.matches.SelectCharacter(player, templates[i]); err != nil {
			t.Fatalf("select character for %s: %v", player, err)
		}
	}
	if _, err := f.matches.StartMatch(ctx, host); err != nil {
		t.Fatalf("start match: %v", err)
	}
	return roomID
}

// messagesFor collects the message contents addressed to a player.
func messagesFor(results []event.Result, playerID string) []string {
	var contents []string
	for _, msg := range event.Messages(results) {
		if msg.Recipient == playerID {
			contents = append(contents, msg.Content)
		}
	}
	return contents
}

// hasMessage reports whether a player received a message containing want.
func hasMessage(results []event.Result, playerID, want string) bool {
	for _, content := range messagesFor(results, playerID) {
		if strings.Contains(content, want) {
			return true
		}
	}
	return false
}
