// Package app composes a playable session and serves it over HTTP.
//
// NewSession builds the bus, the state manager, and every coordinator from
// the embedded content catalog. Server exposes the session on a websocket
// plus two read-only JSON endpoints.
package app
