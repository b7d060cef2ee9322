// Package turn drives the phase cycle of a game session.
//
// A turn runs START, ACTION, RESOLUTION, END and loops back to START. The
// START half runs inside StartTurn and stops in ACTION. Everything after
// that runs synchronously inside EndTurn, which the bus topic turn:end
// triggers. TimeSystem advances the calendar on turn:ending and speeds up
// time as research completes.
package turn
