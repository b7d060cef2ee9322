package systems

import (
	"sync"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/content"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

const eventSource = "events"

// EventNotice is the payload of events:added.
type EventNotice struct {
	ID    string
	Title string
	Turn  int
}

// EventResolution is the payload of events:resolved.
type EventResolution struct {
	ID       string
	ChoiceID string
	Outcome  core.Outcome
	Turn     int
}

// EventTrigger queues catalog events whose triggers hold and applies the
// outcome of the choice the player makes.
type EventTrigger struct {
	states  StateStore
	bus     *eventbus.Bus
	catalog []content.EventEntry
	log     logging.Logger

	mu  sync.Mutex
	sub eventbus.ListenerID
}

// NewEventTrigger creates an event trigger over catalog.
func NewEventTrigger(states StateStore, bus *eventbus.Bus, catalog []content.EventEntry, opts ...Option) *EventTrigger {
	cfg := newConfig(opts)
	return &EventTrigger{
		states:  states,
		bus:     bus,
		catalog: catalog,
		log:     logging.Component(cfg.log, eventSource),
	}
}

// Start evaluates triggers on every events:check.
func (t *EventTrigger) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub != 0 || t.bus == nil {
		return
	}
	t.sub = t.bus.Subscribe(eventbus.TopicEventsCheck, func(eventbus.Event) error {
		t.Check()
		return nil
	}, eventSource)
}

// Stop removes the events:check subscription.
func (t *EventTrigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sub != 0 {
		t.bus.Unsubscribe(eventbus.TopicEventsCheck, t.sub)
		t.sub = 0
	}
}

// Check queues every eligible catalog event and returns their ids in
// catalog order.
func (t *EventTrigger) Check() []string {
	var added []string
	for _, entry := range t.catalog {
		state := t.states.State()
		if !Eligible(entry, state) {
			continue
		}
		turn := turnOf(state)
		t.states.Dispatch(action.AddEvent{Event: entry.EventSpec, Turn: turn})
		if _, queued := t.states.State().Events.Pending(entry.ID); !queued {
			continue
		}
		added = append(added, entry.ID)
		t.log.Info("event triggered", "id", entry.ID, "turn", turn)
		t.emit(eventbus.TopicEventsAdded, EventNotice{ID: entry.ID, Title: entry.Title, Turn: turn})
	}
	return added
}

// Eligible reports whether entry may be queued in state.
func Eligible(entry content.EventEntry, state *aggregate.State) bool {
	if state == nil || state.Events == nil || state.Meta == nil {
		return false
	}
	if _, queued := state.Events.Pending(entry.ID); queued {
		return false
	}
	if entry.OneShot && state.Events.HasFired(entry.ID) {
		return false
	}
	trig := entry.Trigger
	if trig.MinTurn > 0 && state.Meta.Turn < trig.MinTurn {
		return false
	}
	if trig.MinYear > 0 && state.Meta.GameTime.Year < trig.MinYear {
		return false
	}
	for _, id := range trig.RequiresResearch {
		if state.Research == nil || !state.Research.IsCompleted(id) {
			return false
		}
	}
	if trig.Cooldown > 0 {
		for i := len(state.Events.History) - 1; i >= 0; i-- {
			resolved := state.Events.History[i]
			if resolved.ID != entry.ID {
				continue
			}
			if state.Meta.Turn-resolved.ResolvedTurn < trig.Cooldown {
				return false
			}
			break
		}
	}
	return true
}

// Resolve records the player's choice for a pending event and applies its
// outcome.
func (t *EventTrigger) Resolve(eventID, choiceID string) error {
	state := t.states.State()
	if state == nil || state.Events == nil {
		return apperrors.New(apperrors.CodeUnknown, "state not initialized")
	}
	pending, ok := state.Events.Pending(eventID)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeEventNotFound, "event not pending", map[string]string{"ID": eventID})
	}
	choice, ok := pending.Choice(choiceID)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeChoiceNotFound, "choice not found", map[string]string{
			"ID":     eventID,
			"Choice": choiceID,
		})
	}

	turn := turnOf(state)
	t.states.Dispatch(action.ResolveEvent{ID: eventID, ChoiceID: choiceID, Outcome: choice.Outcome, Turn: turn})
	t.apply(choice.Outcome)
	t.log.Info("event resolved", "id", eventID, "choice", choiceID, "turn", turn)
	t.emit(eventbus.TopicEventsResolved, EventResolution{ID: eventID, ChoiceID: choiceID, Outcome: choice.Outcome, Turn: turn})
	return nil
}

// apply turns outcome deltas into absolute field updates. The reducers
// clamp the results.
func (t *EventTrigger) apply(outcome core.Outcome) {
	res := t.states.State().Resources
	if outcome.Funding != 0 {
		t.states.Dispatch(action.UpdateResource{
			Resource: core.ResourceFunding,
			Fields:   map[string]float64{"current": res.Funding.Current + outcome.Funding},
		})
	}
	if outcome.Computing != 0 {
		t.states.Dispatch(action.UpdateResource{
			Resource: core.ResourceComputing,
			Fields:   map[string]float64{"total": res.Computing.Total + outcome.Computing},
		})
	}
	if len(outcome.Influence) > 0 {
		fields := make(map[string]float64, len(outcome.Influence))
		for f, delta := range outcome.Influence {
			if f.Valid() {
				fields[string(f)] = res.Influence.Get(f) + delta
			}
		}
		t.states.Dispatch(action.UpdateResource{Resource: core.ResourceInfluence, Fields: fields})
	}
	if len(outcome.Globals) > 0 {
		globals := t.states.State().World.Globals
		values := make(map[string]float64, len(outcome.Globals))
		for name, delta := range outcome.Globals {
			values[name] = globals[name] + delta
		}
		t.states.Dispatch(action.UpdateGlobalValues{Values: values})
	}
	if outcome.Funding != 0 || outcome.Computing != 0 || len(outcome.Influence) > 0 {
		t.emit(eventbus.TopicResourcesUpdated, t.states.State().Resources)
	}
}

func (t *EventTrigger) emit(topic eventbus.Topic, data any) {
	if t.bus != nil {
		t.bus.Emit(topic, data, eventSource)
	}
}
