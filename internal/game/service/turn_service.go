package service

import (
	"context"
	"log"
	"math/rand"
	"strconv"

	"github.com/louisbranch/fableroom/internal/ai"
	apperrors "github.com/louisbranch/fableroom/internal/errors"
	"github.com/louisbranch/fableroom/internal/event"
	gamecontext "github.com/louisbranch/fableroom/internal/game/context"
	"github.com/louisbranch/fableroom/internal/game/domain"
	"github.com/louisbranch/fableroom/internal/game/rules"
	"github.com/louisbranch/fableroom/internal/i18n"
	"github.com/louisbranch/fableroom/internal/platform/timeouts"
	"github.com/louisbranch/fableroom/internal/storage"
	"github.com/louisbranch/fableroom/internal/telemetry"
)

// narrationHistoryLimit bounds how many past DM beats are replayed to the
// narrator as history.
const narrationHistoryLimit = 5

// TurnService drives the turn loop: DM narration beats and the player
// submissions that answer them.
type TurnService struct {
	registry  *Registry
	printer   *i18n.Printer
	scenarios storage.ScenarioStore
	narrator  ai.Narrator
	emitter   *telemetry.Emitter
}

// NewTurnService wires a turn service.
func NewTurnService(registry *Registry, printer *i18n.Printer, scenarios storage.ScenarioStore, narrator ai.Narrator, emitter *telemetry.Emitter) *TurnService {
	return &TurnService{registry: registry, printer: printer, scenarios: scenarios, narrator: narrator, emitter: emitter}
}

// Narrate runs one DM beat for the room: it opens a DM turn, asks the
// narrator for the next narration, and applies the result.
//
// The room lock is held only while snapshotting and while applying; the
// narrator call itself runs unlocked under a deadline so a slow model never
// blocks the room. On narrator failure the beat degrades to a canned
// fallback narration instead of stalling the match.
func (s *TurnService) Narrate(ctx context.Context, roomID string) ([]event.Result, error) {
	snapshot, err := s.beginNarration(ctx, roomID)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeRoomNotFound || apperrors.CodeOf(err) == apperrors.CodeMatchNotRunning {
			// Room destroyed or match stopped between dispatches. Drop the beat.
			log.Printf("turn: skipping narration for room %s: %v", roomID, err)
			return nil, nil
		}
		return nil, err
	}

	narration := s.narrate(ctx, roomID, snapshot.narrationContext)

	return s.applyNarration(roomID, snapshot.turnID, narration)
}

type narrationSnapshot struct {
	turnID           string
	narrationContext ai.NarrationContext
}

// beginNarration opens a pending DM turn and snapshots the narration
// context under the room lock.
func (s *TurnService) beginNarration(ctx context.Context, roomID string) (narrationSnapshot, error) {
	var snapshot narrationSnapshot
	err := s.registry.WithRoom(roomID, func(room *domain.Room, rng *rand.Rand) error {
		match := room.CurrentMatch()
		if match == nil || match.Status != domain.MatchStatusRunning {
			return apperrors.New(apperrors.CodeMatchNotRunning, "no running match to narrate")
		}

		turn, err := domain.NewDMTurn(s.registry.Clock(), nil)
		if err != nil {
			return err
		}
		previous := match.CurrentTurn()
		matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
		appended := matchCtx.AppendTurn(turn)

		snapshot.turnID = appended.ID
		snapshot.narrationContext = s.buildNarrationContext(ctx, room, match, previous)
		return nil
	})
	return snapshot, err
}

// buildNarrationContext assembles the match snapshot the narrator sees.
func (s *TurnService) buildNarrationContext(ctx context.Context, room *domain.Room, match *domain.Match, previous *domain.Turn) ai.NarrationContext {
	nc := ai.NarrationContext{CurrentScene: match.Scene}

	for _, player := range room.Players {
		info := ai.PlayerInfo{ID: player.ID, Name: player.Name}
		if character := match.CharacterByPlayer(player.ID); character != nil {
			info.CharacterName = character.Name
			info.Health = character.Health
			info.MaxHealth = character.MaxHealth
			info.Location = character.Location
			info.Alive = character.Alive
		}
		nc.Players = append(nc.Players, info)
	}

	if previous != nil && previous.Status == domain.TurnStatusCompleted {
		switch previous.Kind {
		case domain.TurnKindAction:
			nc.PlayerActions = make(map[string]string, len(previous.Actions))
			for playerID, action := range previous.Actions {
				nc.PlayerActions[playerID] = action
			}
		case domain.TurnKindDice:
			for _, summary := range rules.ProcessDiceTurnResults(previous) {
				nc.DiceResults = append(nc.DiceResults, summary.String())
			}
		}
	}

	for _, turn := range match.Turns {
		if turn.Kind == domain.TurnKindDM && turn.Status == domain.TurnStatusCompleted && turn.Narration != "" {
			nc.History = append(nc.History, turn.Narration)
		}
	}
	if len(nc.History) > narrationHistoryLimit {
		nc.History = nc.History[len(nc.History)-narrationHistoryLimit:]
	}

	if match.ScenarioID != "" {
		loaded, err := s.scenarios.GetScenario(ctx, match.ScenarioID)
		if err != nil {
			log.Printf("turn: loading scenario %s: %v", match.ScenarioID, err)
		} else {
			nc.ScenarioInfo = loaded.Excerpt(plotProgress(room))
		}
	}
	return nc
}

// narrate calls the narrator under the narration deadline, degrading to the
// fallback narration on error.
func (s *TurnService) narrate(ctx context.Context, roomID string, nc ai.NarrationContext) ai.Narration {
	narrateCtx, cancel := context.WithTimeout(ctx, timeouts.Narration)
	defer cancel()

	narration, err := s.narrator.Narrate(narrateCtx, nc)
	if err != nil {
		log.Printf("turn: narrator failed for room %s: %v", roomID, err)
		s.emitter.Emit(ctx, telemetry.KindNarrationFallback, roomID, "", err.Error())
		return ai.Fallback(s.printer.T(i18n.KeyNarrationFallback), nc)
	}
	s.emitter.Emit(ctx, telemetry.KindNarrationServed, roomID, "", "")
	return narration
}

// applyNarration commits the narrator's response under the room lock: it
// completes the DM turn, applies world updates, and opens the next player
// turn or finishes the match.
func (s *TurnService) applyNarration(roomID, turnID string, narration ai.Narration) ([]event.Result, error) {
	var results []event.Result
	err := s.registry.WithRoom(roomID, func(room *domain.Room, rng *rand.Rand) error {
		match := room.CurrentMatch()
		if match == nil {
			log.Printf("turn: room %s lost its match before narration applied", roomID)
			return nil
		}
		turn := match.Turn(turnID)
		if turn == nil {
			log.Printf("turn: dm turn %s vanished from match %s", turnID, match.ID)
			return nil
		}

		turnCtx := gamecontext.NewTurnContext(turn, s.registry.Clock())
		if !turnCtx.SetNarration(narration.Narration) {
			return nil
		}
		turnCtx.Complete()

		s.applyWorldUpdates(room, match, narration)

		for _, player := range room.Players {
			results = append(results, event.MessageResult(player.ID, narration.Narration))
		}

		if narration.GameOver {
			matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
			if err := matchCtx.Finish(); err != nil {
				log.Printf("turn: finishing match %s: %v", match.ID, err)
			}
			room.CurrentMatchID = ""
			for _, player := range room.Players {
				results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyGameOver, narration.GameResult)))
			}
			return nil
		}

		active := s.validateActivePlayers(room, match, narration.ActivePlayers)
		if len(active) == 0 {
			// Everyone is down and the narrator did not call the game.
			matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
			if err := matchCtx.Finish(); err != nil {
				log.Printf("turn: finishing match %s: %v", match.ID, err)
			}
			room.CurrentMatchID = ""
			for _, player := range room.Players {
				results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyGameOver, "")))
			}
			return nil
		}

		next, err := s.openNextTurn(match, narration, active)
		if err != nil {
			return err
		}
		turnCtx.SetNextHint(next.Kind, active)

		results = append(results, s.turnPrompts(room, next)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// applyWorldUpdates applies the narrator's location, item, and plot side
// effects. Updates naming unknown characters are logged and skipped.
func (s *TurnService) applyWorldUpdates(room *domain.Room, match *domain.Match, narration ai.Narration) {
	for _, update := range narration.LocationUpdates {
		character := match.CharacterByName(update.CharacterName)
		if character == nil {
			log.Printf("turn: location update for unknown character %q", update.CharacterName)
			continue
		}
		gamecontext.NewCharacterContext(character).SetLocation(update.Location)
	}
	for _, update := range narration.ItemUpdates {
		character := match.CharacterByName(update.CharacterName)
		if character == nil {
			log.Printf("turn: item update for unknown character %q", update.CharacterName)
			continue
		}
		characterCtx := gamecontext.NewCharacterContext(character)
		if update.Remove {
			characterCtx.RemoveItem(update.Item)
		} else {
			characterCtx.AddItem(update.Item)
		}
	}
	if narration.PlotProgress != nil && *narration.PlotProgress >= plotProgress(room) {
		if room.Settings == nil {
			room.Settings = make(map[string]string)
		}
		room.Settings[domain.SettingPlotProgress] = strconv.Itoa(*narration.PlotProgress)
	}
}

// validateActivePlayers filters the narrator's active-player list to players
// actually in the room with living characters. An empty or fully invalid
// list falls back to every living player.
func (s *TurnService) validateActivePlayers(room *domain.Room, match *domain.Match, requested []string) []string {
	living := func(playerID string) bool {
		character := match.CharacterByPlayer(playerID)
		return character != nil && character.Alive
	}

	var active []string
	for _, playerID := range requested {
		if room.Player(playerID) != nil && living(playerID) {
			active = append(active, playerID)
		} else {
			log.Printf("turn: dropping invalid active player %q", playerID)
		}
	}
	if len(active) > 0 {
		return active
	}
	for _, player := range room.Players {
		if living(player.ID) {
			active = append(active, player.ID)
		}
	}
	return active
}

// openNextTurn appends the dice or action turn the narration calls for.
func (s *TurnService) openNextTurn(match *domain.Match, narration ai.Narration, active []string) (*domain.Turn, error) {
	var (
		turn domain.Turn
		err  error
	)
	if narration.NeedDiceRoll {
		turn, err = domain.NewDiceTurn(active, narration.Difficulty, narration.ActionDesc, s.registry.Clock(), nil)
	} else {
		turn, err = domain.NewActionTurn(active, s.registry.Clock(), nil)
	}
	if err != nil {
		return nil, err
	}
	matchCtx := gamecontext.NewMatchContext(match, s.registry.Clock())
	return matchCtx.AppendTurn(turn), nil
}

// turnPrompts builds the per-player prompts for a freshly opened turn.
func (s *TurnService) turnPrompts(room *domain.Room, turn *domain.Turn) []event.Result {
	var results []event.Result
	for _, player := range room.Players {
		if !turn.IsActivePlayer(player.ID) {
			results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyWaitingTurn)))
			continue
		}
		switch turn.Kind {
		case domain.TurnKindDice:
			results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyDiceTurnPrompt, turn.Difficulty, turn.ActionDesc)))
		default:
			results = append(results, event.MessageResult(player.ID, s.printer.T(i18n.KeyYourTurn, turn.ActionDesc)))
		}
	}
	return results
}

// HandlePlayerAction routes one player's free-text submission to the current
// turn. Action turns record the text; dice turns roll and score a check,
// applying failure damage. When the submission completes the turn a DM
// narration follow-up is dispatched.
func (s *TurnService) HandlePlayerAction(ctx context.Context, playerID, action string) ([]event.Result, error) {
	var results []event.Result
	err := s.registry.WithPlayerRoom(playerID, func(room *domain.Room, rng *rand.Rand) error {
		match := room.CurrentMatch()
		if match == nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoMatch)))
			return nil
		}
		if match.Status != domain.MatchStatusRunning {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyMatchNotRunning)))
			return nil
		}
		turn := match.CurrentTurn()
		if turn == nil {
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyNoActiveTurn)))
			return nil
		}

		switch turn.Kind {
		case domain.TurnKindDM:
			results = append(results, event.MessageResult(playerID, s.printer.T(i18n.KeyDMNarrating)))
			return nil
		case domain.TurnKindAction:
			results = append(results, s.recordAction(turn, playerID, action)...)
		case domain.TurnKindDice:
			recorded, err := s.recordDiceCheck(match, turn, rng, playerID, action)
			if err != nil {
				return err
			}
			results = append(results, recorded...)
		}

		if turn.Status == domain.TurnStatusCompleted {
			results = append(results, event.EventResult(event.New(event.TypeDMNarration, event.DMNarrationPayload{RoomID: room.ID})))
		}
		return nil
	})
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.CodeNotInRoom, apperrors.CodeRoomNotFound:
			return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyNotInRoom))}, nil
		default:
			return nil, err
		}
	}
	return results, nil
}

func (s *TurnService) recordAction(turn *domain.Turn, playerID, action string) []event.Result {
	turnCtx := gamecontext.NewTurnContext(turn, s.registry.Clock())
	if !turnCtx.RecordPlayerAction(playerID, action) {
		return []event.Result{event.MessageResult(playerID, s.refusal(turn, playerID))}
	}
	return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyActionRecorded))}
}

func (s *TurnService) recordDiceCheck(match *domain.Match, turn *domain.Turn, rng *rand.Rand, playerID, action string) ([]event.Result, error) {
	roll, err := rules.RollDie(rng, rules.DefaultDieSides)
	if err != nil {
		return nil, err
	}

	turnCtx := gamecontext.NewTurnContext(turn, s.registry.Clock())
	result, ok := turnCtx.RecordDiceResult(playerID, roll, action)
	if !ok {
		return []event.Result{event.MessageResult(playerID, s.refusal(turn, playerID))}, nil
	}

	if result.Success {
		return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyDiceSuccess, result.Roll, result.Difficulty))}, nil
	}

	damage := rules.FailureDamage(result.Difficulty)
	if character := match.CharacterByPlayer(playerID); character != nil {
		gamecontext.NewCharacterContext(character).ApplyHealthDelta(-damage)
	}
	return []event.Result{event.MessageResult(playerID, s.printer.T(i18n.KeyDiceFailure, result.Roll, result.Difficulty, damage))}, nil
}

// refusal maps a rejected submission to the user-facing reason.
func (s *TurnService) refusal(turn *domain.Turn, playerID string) string {
	if !turn.IsActivePlayer(playerID) {
		return s.printer.T(i18n.KeyNotActivePlayer)
	}
	if turn.Status != domain.TurnStatusPending {
		return s.printer.T(i18n.KeyNoActiveTurn)
	}
	return s.printer.T(i18n.KeyDuplicateSubmit)
}

// plotProgress reads the room's plot-progress setting, defaulting to zero.
func plotProgress(room *domain.Room) int {
	progress, err := strconv.Atoi(room.Settings[domain.SettingPlotProgress])
	if err != nil || progress < 0 {
		return 0
	}
	return progress
}
