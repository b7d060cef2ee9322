package aggregate

import (
	"sync"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
)

var (
	reduceOnce  sync.Once
	reduceIndex map[action.Type]reduceEntry
)

func initReduceIndex() {
	reduceOnce.Do(func() {
		reduceIndex = make(map[action.Type]reduceEntry)
		for _, entry := range sliceEntries() {
			for _, t := range entry.types() {
				reduceIndex[t] = entry
			}
		}
	})
}

// Reduce computes the next root state. It is pure and total: unknown or
// malformed actions, a nil action, or a nil state all return state itself,
// which is how callers detect a no-op.
func Reduce(state *State, act action.Action) *State {
	if state == nil || act == nil {
		return state
	}
	initReduceIndex()
	entry, ok := reduceIndex[act.Type()]
	if !ok {
		return state
	}
	next := *state
	if !entry.reduce(state, &next, act) {
		return state
	}
	return &next
}

// HandledTypes lists every action type routed to a slice.
func HandledTypes() []action.Type {
	initReduceIndex()
	types := make([]action.Type, 0, len(reduceIndex))
	for t := range reduceIndex {
		types = append(types, t)
	}
	return types
}

// SliceFor names the slice that owns an action type.
func SliceFor(t action.Type) (string, bool) {
	initReduceIndex()
	entry, ok := reduceIndex[t]
	if !ok {
		return "", false
	}
	return entry.slice, true
}
