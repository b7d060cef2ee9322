// Package action defines the vocabulary of state transitions.
//
// Every transition is a concrete Go type implementing Action, one type per
// wire name. Reducers switch on the concrete type, so inside the process an
// action is always well-formed by construction. The untyped
// {"type": ..., "payload": ...} envelope only exists at the serialization
// boundary (websocket, scenario scripts), where Decode maps legacy alias
// names onto the same Go type and turns unrecognized names into Unknown,
// which every reducer ignores.
package action
