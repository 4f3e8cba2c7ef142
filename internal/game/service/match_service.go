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
	"github.com/louisbranch/fableroom/internal/scenario"
	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

// MatchService manages a room's match lifecycle: scenario selection,
// character binding, and the start/pause/resume/end transitions.
type MatchService struct {
	registry  *Registry
	printer   *i18n.Printer
	scenarios storage.ScenarioStore
	emitter   *telemetry.Emitter
}

// NewMatchService wires a match service.
func NewMatchService(registry *Registry, printer *i18n.Printer, scenarios storage.ScenarioStore, emitter *telemetry.Emitter) *MatchService {
	return &MatchService{registry: registry, printer: printer, scenarios: scenarios, emitter: emitter}
}

// SetScenario binds a scenario to the room's pending match, creating the
// match when none is waiting. Host only; refused once the match runs.
func (s *MatchService) SetScenario(ctx context.Context, playerID, scenarioID string) ([]event.Result, error) {
	loaded, err := s.scenarios.GetScenario(ctx, scenarioID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeNotFound {
			results := []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyScenarioMissing, scenarioID))}
			results = append(results, s.scenarioOptions(ctx, playerID)...)
			return results, nil
		}
		return nil, err
	}

	var results []event.Result
	err = s.registry.WithPlayerRoom(playerID, func(room *domain.Room, rng *rand.Rand) error {
		roomCtx := gamecontext.NewRoomContext(room, s.registry.Clock(), rng)
		if !roomCtx.IsHost(playerID) {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNotHost)))
			return nil
		}

		match := room.CurrentMatch()
		if match == nil || match.Status == domain.MatchStatusFinished {
			created, err := domain.CreateMatch(s.registry.Clock(), nil)
			if err != nil {
				return err
			}
			match = roomCtx.AppendMatch(created)
		}

		matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
		if err := matchCtx.SetScenario(&loaded); err != nil {
			if apperrors.CodeOf(err) == apperrors.CodeScenarioLocked {
				results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyScenarioLocked)))
				return nil
			}
			return err
		}
		roomCtx.SetSetting(domain.SettingScenarioID, loaded.ID)
		roomCtx.SetSetting(domain.SettingPlotProgress, "0")

		for _, player := range room.Players {
			results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyScenarioSet, loaded.Name)))
		}
		return nil
	})
	if err != nil {
		return s.membershipFailure(playerID, err)
	}
	return results, nil
}

// SelectCharacter binds a scenario character template to the acting player.
// Allowed only while the match is waiting; a character bound to another
// player is refused; reselecting rebinds and releases the old character.
func (s *MatchService) SelectCharacter(playerID, characterName string) ([]event.Result, error) {
	var results []event.Result
	err := s.registry.WithPlayerRoom(playerID, func(room *domain.Room, rng *rand.Rand) error {
		match := room.CurrentMatch()
		if match == nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoMatch)))
			return nil
		}
		if match.Status != domain.MatchStatusWaiting {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyMatchRunning)))
			return nil
		}

		var template *scenario.CharacterTemplate
		for i := range match.Templates {
			if match.Templates[i].Name == characterName {
				template = &match.Templates[i]
				break
			}
		}
		if template == nil {
			names := make([]string, 0, len(match.Templates))
			for _, t := range match.Templates {
				names = append(names, t.Name)
			}
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyCharacterUnknown, characterName, strings.Join(names, ", "))))
			return nil
		}

		matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
		var bound *domain.Character
		if existing := match.CharacterByName(characterName); existing != nil {
			var err error
			bound, err = matchCtx.BindCharacter(playerID, *existing)
			if err != nil {
				if apperrors.CodeOf(err) == apperrors.CodeCharacterTaken {
					results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyCharacterTaken, characterName)))
					return nil
				}
				return err
			}
		} else {
			character, err := domain.CreateCharacter(domain.CharacterFromTemplate(*template, playerID), nil)
			if err != nil {
				return err
			}
			bound, err = matchCtx.BindCharacter(playerID, character)
			if err != nil {
				return err
			}
		}

		if player := room.Player(playerID); player != nil {
			player.CharacterID = bound.ID
		}
		results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyCharacterPicked, bound.Name)))
		return nil
	})
	if err != nil {
		return s.membershipFailure(playerID, err)
	}
	return results, nil
}

// StartMatch transitions the room's pending match to RUNNING. Host only;
// the scenario must be set, the player count must fit it, and every player
// must hold a character. On success every player is notified and a DM
// narration follow-up opens the first beat.
func (s *MatchService) StartMatch(ctx context.Context, playerID string) ([]event.Result, error) {
	var (
		results []event.Result
		roomID  string
	)
	err := s.registry.WithPlayerRoom(playerID, func(room *domain.Room, rng *rand.Rand) error {
		roomID = room.ID
		roomCtx := gamecontext.NewRoomContext(room, s.registry.Clock(), rng)
		if !roomCtx.IsHost(playerID) {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNotHost)))
			return nil
		}
		match := room.CurrentMatch()
		if match == nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoMatch)))
			return nil
		}
		if match.Status == domain.MatchStatusRunning {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyMatchRunning)))
			return nil
		}
		if match.ScenarioID == "" {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyScenarioNone)))
			results = append(results, s.scenarioOptions(ctx, playerID)...)
			return nil
		}

		loaded, err := s.scenarios.GetScenario(ctx, match.ScenarioID)
		if err != nil {
			log.Printf("match: loading scenario %s for room %s: %v", match.ScenarioID, room.ID, err)
		} else if !loaded.AcceptsPlayerCount(len(room.Players)) {
			results = append(results, event.MessageResult(playerID, s.printer.T(
				i18n.KeyScenarioPlayers, loaded.Name, loaded.MinPlayers, loaded.MaxPlayers, len(room.Players))))
			return nil
		}

		var missing []string
		for _, player := range room.Players {
			if match.CharacterByPlayer(player.ID) == nil {
				missing = append(missing, player.Name)
			}
		}
		if len(missing) > 0 {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyCharactersNeeded, strings.Join(missing, ", "))))
			return nil
		}

		matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
		if err := matchCtx.Start(); err != nil {
			return err
		}

		for _, player := range room.Players {
			results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyMatchStarted)))
		}
		results = append(results, event.EventResult(event.New(event.TypeDMNarration, event.DMNarrationPayload{RoomID: room.ID})))
		return nil
	})
	if err != nil {
		return s.membershipFailure(playerID, err)
	}
	if roomID != "" && len(event.FollowUps(results)) > 0 {
		s.emitter.Emit(ctx, telemetry.KindMatchStarted, roomID, playerID, "")
	}
	return results, nil
}

// EndMatch finishes the room's current match. Host only.
func (s *MatchService) EndMatch(ctx context.Context, playerID, result string) ([]event.Result, error) {
	var (
		results []event.Result
		roomID  string
		ended   bool
	)
	err := s.registry.WithPlayerRoom(playerID, func(room *domain.Room, rng *rand.Rand) error {
		roomID = room.ID
		roomCtx := gamecontext.NewRoomContext(room, s.registry.Clock(), rng)
		if !roomCtx.IsHost(playerID) {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNotHost)))
			return nil
		}
		match := room.CurrentMatch()
		if match == nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoMatch)))
			return nil
		}
		matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
		if err := matchCtx.Finish(); err != nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoMatch)))
			return nil
		}
		room.CurrentMatchID = ""
		ended = true
		for _, player := range room.Players {
			results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyMatchFinished, result)))
		}
		return nil
	})
	if err != nil {
		return s.membershipFailure(playerID, err)
	}
	if ended {
		s.emitter.Emit(ctx, telemetry.KindMatchFinished, roomID, playerID, result)
	}
	return results, nil
}

// PauseMatch suspends the room's running match. Host only.
func (s *MatchService) PauseMatch(playerID string) ([]event.Result, error) {
	return s.transition(playerID, func(matchCtx *gamecontext.MatchContext) error {
		return matchCtx.Pause()
	}, i18n.KeyMatchPaused, i18n.KeyMatchNotRunning)
}

// ResumeMatch continues the room's paused match. Host only.
func (s *MatchService) ResumeMatch(playerID string) ([]event.Result, error) {
	return s.transition(playerID, func(matchCtx *gamecontext.MatchContext) error {
		return matchCtx.Resume()
	}, i18n.KeyMatchResumed, i18n.KeyMatchNotPaused)
}

func (s *MatchService) transition(playerID string, apply func(*gamecontext.MatchContext) error, okKey, failKey string) ([]event.Result, error) {
	var results []event.Result
	err := s.registry.WithPlayerRoom(playerID, func(room *domain.Room, rng *rand.Rand) error {
		roomCtx := gamecontext.NewRoomContext(room, s.registry.Clock(), rng)
		if !roomCtx.IsHost(playerID) {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNotHost)))
			return nil
		}
		match := room.CurrentMatch()
		if match == nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoMatch)))
			return nil
		}
		if err := apply(gamecontext.NewMatchContext(match, s.registry.Clock())); err != nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(failKey)))
			return nil
		}
		for _, player := range room.Players {
			results = append(results, event.MessageResult(player.ID, s.printer.T(okKey)))
		}
		return nil
	})
	if err != nil {
		return s.membershipFailure(playerID, err)
	}
	return results, nil
}

// scenarioOptions builds the secondary message listing valid scenarios.
func (s *MatchService) scenarioOptions(ctx context.Context, playerID string) []event.Result {
	scenarios, err := s.scenarios.ListScenarios(ctx)
	if err != nil || len(scenarios) == 0 {
		return nil
	}
	names := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		names = append(names, sc.ID)
	}
	return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyScenarioOptions, strings.Join(names, ", ")))}
}

// membershipFailure converts room-resolution errors into a user-facing
// message; anything else propagates.
func (s *MatchService) membershipFailure(playerID string, err error) ([]event.Result, error) {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotInRoom, apperrors.CodeRoomNotFound:
		return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyNotInRoom))}, nil
	default:
		return nil, err
	}
}
