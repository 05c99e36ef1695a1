// Package events defines the typed world-event contract.
//
// Event kinds are namespaced by origin:
//
//   - world.observed: events reported by the simulation (combat, loot,
//     weather, anything a character can witness).
//   - world.utterance: spoken reactions minted by the dialogue pipeline and
//     fed back into the log so later reactions can reference them.
//
// Timestamps are world-clock milliseconds rather than wall time so that
// trailing context windows stay stable under pause and time acceleration.
package events
