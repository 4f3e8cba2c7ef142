// Package service orchestrates the entity contexts across rooms, matches,
// and turns, and owns the live game state through the Registry.
//
// Services enforce the cross-entity rules a single context cannot see (only
// the host starts a match, a scenario is chosen before characters, every
// player holds a character before play begins) and translate outcomes into
// outbound player messages and follow-up events.
package service
