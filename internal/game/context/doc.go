// Package context wraps one entity each in a validated mutator: RoomContext,
// MatchContext, TurnContext, and CharacterContext.
//
// A context holds no state beyond the wrapped entity and its injected
// collaborators (clock, id generator, random source). Operations either
// mutate the entity while preserving its invariants or refuse with no state
// change. Cross-entity rules live in internal/game/service.
package context
