// Package domain defines the entity model for the session host: rooms,
// players, matches, characters, and turns.
//
// Entities are plain records with invariants. Validated mutation lives in
// the context layer (internal/game/context); cross-entity orchestration
// lives in the service layer (internal/game/service). Rooms own their
// players and matches by value; matches own their turns and characters.
// Players and characters cross-reference each other by id only.
package domain
