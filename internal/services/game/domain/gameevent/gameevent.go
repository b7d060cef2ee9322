// Package gameevent holds the queue of narrative events awaiting a player
// decision.
package gameevent

import (
	"slices"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

// Event is a queued event.
type Event struct {
	core.EventSpec
	TriggeredTurn int `json:"triggeredTurn"`
}

// Resolved is an event with the choice the player took.
type Resolved struct {
	Event
	ChoiceID     string       `json:"choiceId"`
	Outcome      core.Outcome `json:"outcome"`
	ResolvedTurn int          `json:"resolvedTurn"`
}

// State is the events slice. Triggered holds one-shot ids that never fire
// again.
type State struct {
	Current   []Event    `json:"current"`
	History   []Resolved `json:"history"`
	Triggered []string   `json:"triggered"`
}

// New returns an empty events slice.
func New() *State {
	return &State{Current: []Event{}, History: []Resolved{}, Triggered: []string{}}
}

// Pending returns the queued event with id.
func (s *State) Pending(id string) (Event, bool) {
	for _, e := range s.Current {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// HasFired reports whether a one-shot event was already queued once.
func (s *State) HasFired(id string) bool {
	return slices.Contains(s.Triggered, id)
}

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{action.TypeAddEvent, action.TypeResolveEvent}
}

// Reduce applies an action to the events slice. It returns s itself when
// the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.AddEvent:
		id := a.Event.ID
		if id == "" || s.HasFired(id) {
			return s
		}
		if _, queued := s.Pending(id); queued {
			return s
		}
		next := *s
		next.Current = append(slices.Clone(s.Current), Event{EventSpec: a.Event, TriggeredTurn: a.Turn})
		if a.Event.OneShot {
			next.Triggered = append(slices.Clone(s.Triggered), id)
		}
		return &next
	case action.ResolveEvent:
		idx := slices.IndexFunc(s.Current, func(e Event) bool { return e.ID == a.ID })
		if idx < 0 {
			return s
		}
		next := *s
		current := slices.Clone(s.Current)
		ev := current[idx]
		next.Current = slices.Delete(current, idx, idx+1)
		next.History = append(slices.Clone(s.History), Resolved{
			Event:        ev,
			ChoiceID:     a.ChoiceID,
			Outcome:      a.Outcome,
			ResolvedTurn: a.Turn,
		})
		return &next
	}
	return s
}
