// Package i18n holds the locale catalogs for outbound player messages.
//
// The base locale is en-US; zh-CN covers the chat deployments whose players
// drive the host with Chinese slash commands. Catalogs are registered with
// golang.org/x/text so a Printer resolves each key through language
// matching with base-locale fallback.
package i18n

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

// Message keys. Every outbound string the core produces goes through one of
// these.
const (
	KeyWelcome           = "player.welcome"
	KeyRoomCreated       = "room.created"
	KeyRoomJoinedSelf    = "room.joined_self"
	KeyRoomJoinedOther   = "room.joined_other"
	KeyRoomLeft          = "room.left"
	KeyHostChanged       = "room.host_changed"
	KeyRoomsNone         = "room.list_empty"
	KeyRoomsEntry        = "room.list_entry"
	KeyNotInRoom         = "room.not_in_room"
	KeyAlreadyInRoom     = "room.already_in_room"
	KeyRoomNotFound      = "room.not_found"
	KeyNotHost           = "room.not_host"
	KeyNoMatch           = "match.none"
	KeyMatchStarted      = "match.started"
	KeyMatchRunning      = "match.already_running"
	KeyMatchNotRunning   = "match.not_running"
	KeyMatchNotPaused    = "match.not_paused"
	KeyMatchPaused       = "match.paused"
	KeyMatchResumed      = "match.resumed"
	KeyMatchFinished     = "match.finished"
	KeyScenarioSet       = "scenario.set"
	KeyScenarioMissing   = "scenario.missing"
	KeyScenarioNone      = "scenario.none"
	KeyScenarioOptions   = "scenario.options"
	KeyScenarioLocked    = "scenario.locked"
	KeyScenarioPlayers   = "scenario.player_count"
	KeyCharacterPicked   = "character.picked"
	KeyCharacterTaken    = "character.taken"
	KeyCharacterUnknown  = "character.unknown"
	KeyCharactersNeeded  = "character.unassigned"
	KeyNoActiveTurn      = "turn.none"
	KeyYourTurn          = "turn.your_turn"
	KeyDiceTurnPrompt    = "turn.dice_prompt"
	KeyWaitingTurn       = "turn.waiting"
	KeyActionRecorded    = "turn.action_recorded"
	KeyDiceSuccess       = "turn.dice_success"
	KeyDiceFailure       = "turn.dice_failure"
	KeyDMNarrating       = "turn.dm_narrating"
	KeyDuplicateSubmit   = "turn.duplicate_submission"
	KeyNotActivePlayer   = "turn.not_active"
	KeyGameOver          = "match.game_over"
	KeyGenericError      = "error.generic"
	KeyNarrationFallback = "narration.fallback"
)

var catalogs = map[string]map[string]string{
	"en-US": {
		KeyWelcome:           "Welcome, %s! Create a room with /create_room or join one with /join_room <id>.",
		KeyRoomCreated:       "Room %s is open. Share the id %s so others can join.",
		KeyRoomJoinedSelf:    "You joined room %s.",
		KeyRoomJoinedOther:   "%s joined the room.",
		KeyRoomLeft:          "%s left the room.",
		KeyHostChanged:       "%s is now the host.",
		KeyRoomsNone:         "No open rooms. Create one with /create_room.",
		KeyRoomsEntry:        "%s: %s (%d players)",
		KeyNotInRoom:         "You are not in a room. Join one first.",
		KeyAlreadyInRoom:     "You are already in room %s.",
		KeyRoomNotFound:      "Room %s was not found.",
		KeyNotHost:           "Only the host can do that.",
		KeyNoMatch:           "The room has no match in progress.",
		KeyMatchStarted:      "The match has started!",
		KeyMatchRunning:      "A match is already running.",
		KeyMatchNotRunning:   "The match is not running.",
		KeyMatchNotPaused:    "The match is not paused.",
		KeyMatchPaused:       "The match is paused.",
		KeyMatchResumed:      "The match resumes.",
		KeyMatchFinished:     "The match has ended. %s",
		KeyScenarioSet:       "Scenario set to %s.",
		KeyScenarioMissing:   "Scenario %s was not found.",
		KeyScenarioNone:      "No scenario is set. Pick one with /scenario <id> first.",
		KeyScenarioOptions:   "Available scenarios: %s",
		KeyScenarioLocked:    "The scenario cannot change once the match has started.",
		KeyScenarioPlayers:   "%s needs %d to %d players; the room has %d.",
		KeyCharacterPicked:   "You are now playing %s.",
		KeyCharacterTaken:    "%s is already taken.",
		KeyCharacterUnknown:  "No character named %s. Choose from: %s",
		KeyCharactersNeeded:  "Everyone needs a character before the match can start. Still choosing: %s",
		KeyNoActiveTurn:      "There is no active turn right now.",
		KeyYourTurn:          "Your turn: %s",
		KeyDiceTurnPrompt:    "Dice check, difficulty %d: %s. Send your action to roll.",
		KeyWaitingTurn:       "Waiting on the other players...",
		KeyActionRecorded:    "Action recorded.",
		KeyDiceSuccess:       "You rolled %d against difficulty %d: success!",
		KeyDiceFailure:       "You rolled %d against difficulty %d: failure. You take %d damage.",
		KeyDMNarrating:       "The DM is narrating. Hold your action for now.",
		KeyDuplicateSubmit:   "You already submitted for this turn.",
		KeyNotActivePlayer:   "You are not part of the current turn.",
		KeyGameOver:          "Game over: %s",
		KeyGenericError:      "Something went wrong handling your request.",
		KeyNarrationFallback: "The threads of fate tangle for a moment, and the scene holds its breath. The story will continue.",
	},
	"zh-CN": {
		KeyWelcome:           "欢迎，%s！使用 /创建房间 新建房间，或 /加入房间 <id> 加入。",
		KeyRoomCreated:       "房间 %s 已创建。把房间号 %s 分享给其他玩家吧。",
		KeyRoomJoinedSelf:    "你已加入房间 %s。",
		KeyRoomJoinedOther:   "%s 加入了房间。",
		KeyRoomLeft:          "%s 离开了房间。",
		KeyHostChanged:       "%s 成为新的房主。",
		KeyRoomsNone:         "当前没有开放的房间。使用 /创建房间 新建一个。",
		KeyRoomsEntry:        "%s: %s（%d 名玩家）",
		KeyNotInRoom:         "你还没有加入任何房间。",
		KeyAlreadyInRoom:     "你已经在房间 %s 中了。",
		KeyRoomNotFound:      "找不到房间 %s。",
		KeyNotHost:           "只有房主可以执行此操作。",
		KeyNoMatch:           "房间内没有进行中的游戏。",
		KeyMatchStarted:      "游戏开始了！",
		KeyMatchRunning:      "游戏已经在进行中。",
		KeyMatchNotRunning:   "游戏尚未开始。",
		KeyMatchNotPaused:    "游戏没有处于暂停状态。",
		KeyMatchPaused:       "游戏已暂停。",
		KeyMatchResumed:      "游戏继续。",
		KeyMatchFinished:     "游戏结束了。%s",
		KeyScenarioSet:       "剧本已设置为 %s。",
		KeyScenarioMissing:   "找不到剧本 %s。",
		KeyScenarioNone:      "尚未设置剧本。请先用 /剧本 <id> 选择。",
		KeyScenarioOptions:   "可选剧本：%s",
		KeyScenarioLocked:    "游戏开始后无法更换剧本。",
		KeyScenarioPlayers:   "%s 需要 %d 到 %d 名玩家；当前房间有 %d 名。",
		KeyCharacterPicked:   "你现在扮演 %s。",
		KeyCharacterTaken:    "%s 已被其他玩家选择。",
		KeyCharacterUnknown:  "没有名为 %s 的角色。可选角色：%s",
		KeyCharactersNeeded:  "所有玩家都需要选择角色后才能开始。尚未选择：%s",
		KeyNoActiveTurn:      "当前没有进行中的回合。",
		KeyYourTurn:          "轮到你了：%s",
		KeyDiceTurnPrompt:    "掷骰检定，难度 %d：%s。发送你的行动即可掷骰。",
		KeyWaitingTurn:       "等待其他玩家……",
		KeyActionRecorded:    "行动已记录。",
		KeyDiceSuccess:       "你掷出了 %d，难度 %d：成功！",
		KeyDiceFailure:       "你掷出了 %d，难度 %d：失败。你受到 %d 点伤害。",
		KeyDMNarrating:       "DM 正在叙述，请稍候再行动。",
		KeyDuplicateSubmit:   "你本回合已经提交过了。",
		KeyNotActivePlayer:   "你不在当前回合的行动玩家中。",
		KeyGameOver:          "游戏结束：%s",
		KeyGenericError:      "处理你的请求时出了点问题。",
		KeyNarrationFallback: "命运的丝线暂时纠缠在一起，场景屏住了呼吸。故事还会继续。",
	},
}

func init() {
	if err := register(); err != nil {
		panic(err)
	}
}

func register() error {
	for locale, messages := range catalogs {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := message.SetString(tag, key, messages[key]); err != nil {
				return fmt.Errorf("register %s/%s: %w", locale, key, err)
			}
		}
	}
	return nil
}

// Locales returns the supported locale identifiers.
func Locales() []string {
	locales := make([]string, 0, len(catalogs))
	for locale := range catalogs {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Printer formats outbound messages for one locale.
type Printer struct {
	printer *message.Printer
}

// NewPrinter creates a printer for the given locale. Unknown locales fall
// back to the base locale.
func NewPrinter(locale string) *Printer {
	if _, ok := catalogs[locale]; !ok {
		locale = BaseLocale
	}
	return &Printer{printer: message.NewPrinter(language.MustParse(locale))}
}

// T formats the message registered under key with the given arguments.
func (p *Printer) T(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}
