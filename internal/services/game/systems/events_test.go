package systems

import (
	"testing"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/content"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

func testCatalog() []content.EventEntry {
	return []content.EventEntry{
		{
			EventSpec: core.EventSpec{
				ID:      "grant",
				Title:   "Grant",
				OneShot: true,
				Choices: []core.Choice{{
					ID: "accept",
					Outcome: core.Outcome{
						Funding:   300,
						Influence: map[core.Faction]float64{core.FactionAcademic: 5},
						Globals:   map[string]float64{"trust": 2},
					},
				}},
			},
			Trigger: content.Trigger{MinTurn: 2},
		},
		{
			EventSpec: core.EventSpec{
				ID:      "shortage",
				Title:   "Shortage",
				Choices: []core.Choice{{ID: "pay", Outcome: core.Outcome{Funding: -200, Computing: 10}}},
			},
			Trigger: content.Trigger{MinTurn: 2, Cooldown: 3},
		},
		{
			EventSpec: core.EventSpec{ID: "paper", Title: "Paper", OneShot: true},
			Trigger:   content.Trigger{RequiresResearch: []string{"basics"}},
		},
	}
}

func newTriggerFixture(t *testing.T) (*fixture, *EventTrigger) {
	t.Helper()
	f := newFixture(t, aggregate.Options{Research: testTree(), Globals: map[string]float64{"trust": 10}})
	trigger := NewEventTrigger(f.states, f.bus, testCatalog())
	trigger.Start()
	t.Cleanup(trigger.Stop)
	return f, trigger
}

func TestCheckHonorsTriggers(t *testing.T) {
	f, trigger := newTriggerFixture(t)
	if added := trigger.Check(); len(added) != 0 {
		t.Fatalf("turn 1 added = %v, want none", added)
	}

	f.states.Dispatch(action.AdvanceTurn{})
	added := trigger.Check()
	if len(added) != 2 || added[0] != "grant" || added[1] != "shortage" {
		t.Fatalf("turn 2 added = %v, want [grant shortage]", added)
	}
	if again := trigger.Check(); len(again) != 0 {
		t.Fatalf("pending events requeued: %v", again)
	}

	f.research.CompleteResearch("basics")
	if added := trigger.Check(); len(added) != 1 || added[0] != "paper" {
		t.Fatalf("after research added = %v, want [paper]", added)
	}
}

func TestEventsCheckTopicQueues(t *testing.T) {
	f, _ := newTriggerFixture(t)
	queued := capture(f.bus, eventbus.TopicEventsAdded)
	f.states.Dispatch(action.AdvanceTurn{})

	f.bus.Emit(eventbus.TopicEventsCheck, nil, "turn")

	if len(*queued) != 2 {
		t.Fatalf("added events = %d, want 2", len(*queued))
	}
	if got := len(f.states.State().Events.Current); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
}

func TestResolveAppliesOutcome(t *testing.T) {
	f, trigger := newTriggerFixture(t)
	resolved := capture(f.bus, eventbus.TopicEventsResolved)
	f.states.Dispatch(action.AdvanceTurn{})
	trigger.Check()

	if err := trigger.Resolve("grant", "accept"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	state := f.states.State()
	if state.Resources.Funding.Current != 1300 {
		t.Fatalf("funding = %v, want 1300", state.Resources.Funding.Current)
	}
	if got := state.Resources.Influence.Get(core.FactionAcademic); got != 15 {
		t.Fatalf("academic = %v, want 15", got)
	}
	if got := state.World.Globals["trust"]; got != 12 {
		t.Fatalf("trust = %v, want 12", got)
	}
	if _, pending := state.Events.Pending("grant"); pending {
		t.Fatal("expected grant to leave the queue")
	}
	if len(state.Events.History) != 1 || state.Events.History[0].ChoiceID != "accept" {
		t.Fatalf("history = %+v", state.Events.History)
	}
	if len(*resolved) != 1 {
		t.Fatalf("resolved events = %d, want 1", len(*resolved))
	}

	f.states.Dispatch(action.AdvanceTurn{})
	for _, id := range trigger.Check() {
		if id == "grant" {
			t.Fatal("one-shot event fired twice")
		}
	}
}

func TestResolveClampsComputingAndFunding(t *testing.T) {
	f, trigger := newTriggerFixture(t)
	f.states.Dispatch(action.AdvanceTurn{})
	trigger.Check()

	if err := trigger.Resolve("shortage", "pay"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	res := f.states.State().Resources
	if res.Funding.Current != 800 || res.Computing.Total != 60 {
		t.Fatalf("funding %v computing %v, want 800 and 60", res.Funding.Current, res.Computing.Total)
	}
}

func TestRepeatableEventCooldown(t *testing.T) {
	f, trigger := newTriggerFixture(t)
	f.states.Dispatch(action.AdvanceTurn{})
	trigger.Check()
	trigger.Resolve("shortage", "pay")

	for turn := 3; turn <= 5; turn++ {
		f.states.Dispatch(action.AdvanceTurn{})
		added := trigger.Check()
		fired := len(added) == 1 && added[0] == "shortage"
		if turn < 5 && fired {
			t.Fatalf("shortage refired on turn %d", turn)
		}
		if turn == 5 && !fired {
			t.Fatalf("turn 5 added = %v, want [shortage]", added)
		}
	}
}

func TestResolveRejectsUnknown(t *testing.T) {
	f, trigger := newTriggerFixture(t)
	if err := trigger.Resolve("grant", "accept"); apperrors.CodeOf(err) != apperrors.CodeEventNotFound {
		t.Fatalf("err = %v, want event not found", err)
	}
	f.states.Dispatch(action.AdvanceTurn{})
	trigger.Check()
	if err := trigger.Resolve("grant", "refuse"); apperrors.CodeOf(err) != apperrors.CodeChoiceNotFound {
		t.Fatalf("err = %v, want choice not found", err)
	}
}
