package gameevent

import (
	"testing"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

func TestAddEventQueuesOnce(t *testing.T) {
	s := New()
	ev := core.EventSpec{ID: "grant", Title: "Research Grant", OneShot: true}
	s = Reduce(s, action.AddEvent{Event: ev, Turn: 2})
	if len(s.Current) != 1 || s.Current[0].TriggeredTurn != 2 {
		t.Fatalf("current = %+v", s.Current)
	}
	if !s.HasFired("grant") {
		t.Fatal("expected one-shot event to be marked triggered")
	}
	if got := Reduce(s, action.AddEvent{Event: ev}); got != s {
		t.Fatal("expected identity for queued event")
	}
	if got := Reduce(New(), action.AddEvent{}); len(got.Current) != 0 {
		t.Fatal("expected event without id to be ignored")
	}
}

func TestResolvedOneShotNeverRefires(t *testing.T) {
	s := Reduce(New(), action.AddEvent{Event: core.EventSpec{ID: "leak", OneShot: true}})
	s = Reduce(s, action.ResolveEvent{ID: "leak", ChoiceID: "deny", Turn: 3})
	if len(s.Current) != 0 || len(s.History) != 1 {
		t.Fatalf("state = %+v", s)
	}
	if s.History[0].ChoiceID != "deny" || s.History[0].ResolvedTurn != 3 {
		t.Fatalf("history = %+v", s.History[0])
	}
	if got := Reduce(s, action.AddEvent{Event: core.EventSpec{ID: "leak", OneShot: true}}); got != s {
		t.Fatal("expected one-shot event not to refire")
	}
}

func TestRepeatableEventRequeuesAfterResolve(t *testing.T) {
	s := Reduce(New(), action.AddEvent{Event: core.EventSpec{ID: "audit"}})
	s = Reduce(s, action.ResolveEvent{ID: "audit"})
	s = Reduce(s, action.AddEvent{Event: core.EventSpec{ID: "audit"}})
	if len(s.Current) != 1 {
		t.Fatalf("current = %+v", s.Current)
	}
	if got := Reduce(s, action.ResolveEvent{ID: "missing"}); got != s {
		t.Fatal("expected identity for unknown event")
	}
}
