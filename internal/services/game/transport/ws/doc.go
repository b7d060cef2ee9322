// Package ws exposes a running session over a websocket.
//
// Clients receive a full state snapshot when they connect and again after
// every state change or load. They send action envelopes and turn-end
// requests back; those are applied by a single goroutine so the session
// only ever has one writer.
package ws
