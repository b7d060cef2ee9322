// Package systems holds the coordinators that turn player and game intents
// into dispatched actions: resources, research, deployments, and narrative
// events.
//
// Coordinators validate against the current state before dispatching. A
// rejected intent dispatches nothing and emits a *:failed bus event whose
// Failure payload carries a player-facing reason.
package systems
