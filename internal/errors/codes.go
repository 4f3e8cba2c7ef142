// Package errors provides structured, coded errors for the session host.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Room errors
	CodeRoomNotFound   Code = "ROOM_NOT_FOUND"
	CodeRoomNameEmpty  Code = "ROOM_NAME_EMPTY"
	CodeNotHost        Code = "NOT_HOST"
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	CodeAlreadyInRoom  Code = "ALREADY_IN_ROOM"
	CodeNotInRoom      Code = "NOT_IN_ROOM"

	// Match errors
	CodeMatchNotFound        Code = "MATCH_NOT_FOUND"
	CodeMatchRunning         Code = "MATCH_RUNNING"
	CodeMatchNotRunning      Code = "MATCH_NOT_RUNNING"
	CodeMatchNotPaused       Code = "MATCH_NOT_PAUSED"
	CodeMatchFinished        Code = "MATCH_FINISHED"
	CodeScenarioMissing      Code = "SCENARIO_MISSING"
	CodeScenarioLocked       Code = "SCENARIO_LOCKED"
	CodeScenarioPlayerCount  Code = "SCENARIO_PLAYER_COUNT"
	CodeCharactersUnassigned Code = "CHARACTERS_UNASSIGNED"

	// Character errors
	CodeCharacterTaken    Code = "CHARACTER_TAKEN"
	CodeCharacterNotFound Code = "CHARACTER_NOT_FOUND"

	// Turn errors
	CodeTurnNotFound        Code = "TURN_NOT_FOUND"
	CodeWrongTurnKind       Code = "WRONG_TURN_KIND"
	CodeNotActivePlayer     Code = "NOT_ACTIVE_PLAYER"
	CodeDuplicateSubmission Code = "DUPLICATE_SUBMISSION"

	// Dispatch errors
	CodeUnknownEvent Code = "UNKNOWN_EVENT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
