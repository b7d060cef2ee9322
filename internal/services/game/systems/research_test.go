package systems

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/domain/research"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

func TestStartResearchRejects(t *testing.T) {
	defs := testTree()
	defs[0].Cost = core.Cost{Funding: 5000}
	f := newFixture(t, aggregate.Options{Research: defs})
	failed := capture(f.bus, eventbus.TopicResearchFailed)

	tests := []struct {
		id      string
		compute float64
		code    apperrors.Code
	}{
		{id: "missing", code: apperrors.CodeResearchUnknown},
		{id: "nets", code: apperrors.CodeResearchLocked},
		{id: "basics", compute: 10, code: apperrors.CodeInsufficientFunding},
		{id: "basics", compute: -1, code: apperrors.CodeInvalidAmount},
	}
	for _, tt := range tests {
		err := f.research.StartResearch(tt.id, tt.compute)
		if got := apperrors.CodeOf(err); got != tt.code {
			t.Fatalf("StartResearch(%s) code = %s, want %s", tt.id, got, tt.code)
		}
	}
	if len(*failed) != len(tests) {
		t.Fatalf("failures = %d, want %d", len(*failed), len(tests))
	}
	if reason := (*failed)[1].(Failure).Reason; reason != "Research nets requires basics" {
		t.Fatalf("reason = %q", reason)
	}
}

func TestStartResearchPaysCostAndAllocates(t *testing.T) {
	defs := testTree()
	defs[0].Cost = core.Cost{Computing: 5, Funding: 50, Data: &core.DataCost{Tiers: []string{"basic"}}}
	f := newFixture(t, aggregate.Options{Research: defs})
	started := capture(f.bus, eventbus.TopicResearchStarted)

	if err := f.research.StartResearch("basics", 20); err != nil {
		t.Fatalf("start: %v", err)
	}
	state := f.states.State()
	if got := state.Resources.Funding.Current; got != 950 {
		t.Fatalf("funding = %v, want 950", got)
	}
	if got := state.Resources.Computing.Allocated[ResearchTarget("basics")]; got != 25 {
		t.Fatalf("allocated = %v, want 25", got)
	}
	if !state.Resources.Data.Tiers["basic"] {
		t.Fatal("expected data tier to be checked, not revoked")
	}
	if !state.Research.IsActive("basics") {
		t.Fatal("expected basics to be active")
	}
	if len(*started) != 1 || (*started)[0].(ResearchStarted).Compute != 20 {
		t.Fatalf("started = %+v", *started)
	}
	if err := f.research.StartResearch("basics", 1); apperrors.CodeOf(err) != apperrors.CodeResearchNotAvailable {
		t.Fatalf("restart err = %v", err)
	}
}

func TestResearchCompletionReleasesAndUnlocks(t *testing.T) {
	f := newFixture(t, aggregate.Options{Research: testTree()})
	complete := capture(f.bus, eventbus.TopicResearchComplete)
	completed := capture(f.bus, eventbus.TopicResearchCompleted)
	breakthrough := capture(f.bus, eventbus.TopicResearchBreakthrough)

	if err := f.research.StartResearch("basics", 20); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.states.Dispatch(action.UpdateResearchProgress{Turn: 1})
	if len(*completed) != 0 {
		t.Fatal("expected no completion after one step")
	}
	f.states.Dispatch(action.UpdateResearchProgress{Turn: 2})

	state := f.states.State()
	if !state.Research.IsCompleted("basics") {
		t.Fatal("expected basics to be completed")
	}
	if _, ok := state.Resources.Computing.Allocated[ResearchTarget("basics")]; ok {
		t.Fatal("expected research computing to be released")
	}
	if !state.Research.IsUnlocked("nets") || !state.Research.IsUnlocked("attention") {
		t.Fatalf("unlocked = %v, want nets and attention", state.Research.Unlocked)
	}
	if len(*complete) != 1 || len(*completed) != 1 || len(*breakthrough) != 0 {
		t.Fatalf("events = complete %d, completed %d, breakthrough %d", len(*complete), len(*completed), len(*breakthrough))
	}
	done := (*complete)[0].(ResearchCompletion)
	if done.ID != "basics" || done.Turn != 2 || len(done.Unlocked) != 2 {
		t.Fatalf("completion = %+v", done)
	}
}

func TestBreakthroughCompletion(t *testing.T) {
	f := newFixture(t, aggregate.Options{Research: testTree()})
	complete := capture(f.bus, eventbus.TopicResearchComplete)
	breakthrough := capture(f.bus, eventbus.TopicResearchBreakthrough)

	if err := f.research.CompleteResearch("basics"); err != nil {
		t.Fatalf("complete basics: %v", err)
	}
	if err := f.research.CompleteResearch("attention"); err != nil {
		t.Fatalf("complete attention: %v", err)
	}
	if len(*complete) != 1 || len(*breakthrough) != 1 {
		t.Fatalf("events = complete %d, breakthrough %d", len(*complete), len(*breakthrough))
	}
	if (*breakthrough)[0].(ResearchCompletion).ID != "attention" {
		t.Fatalf("breakthrough = %+v", (*breakthrough)[0])
	}
	if err := f.research.CompleteResearch("attention"); apperrors.CodeOf(err) != apperrors.CodeResearchNotAvailable {
		t.Fatalf("second completion err = %v", err)
	}
}

func TestCancelResearchKeepsProgress(t *testing.T) {
	f := newFixture(t, aggregate.Options{Research: testTree()})
	if err := f.research.StartResearch("basics", 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.states.Dispatch(action.UpdateResearchProgress{Turn: 1})

	if err := f.research.CancelResearch("basics"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	state := f.states.State()
	node := state.Research.Nodes["basics"]
	if node.Progress != 1 || node.Status != research.StatusUnlocked || node.ComputeAllocated != 0 {
		t.Fatalf("node = %+v", node)
	}
	if _, ok := state.Resources.Computing.Allocated[ResearchTarget("basics")]; ok {
		t.Fatal("expected computing to be released")
	}
	err := f.research.CancelResearch("basics")
	if !errors.Is(err, apperrors.New(apperrors.CodeResearchNotAvailable, "")) {
		t.Fatalf("second cancel err = %v", err)
	}
}

func TestAvailableResearch(t *testing.T) {
	f := newFixture(t, aggregate.Options{Research: testTree()})
	avail := f.research.Available()
	if len(avail) != 1 || avail[0].ID != "basics" {
		t.Fatalf("available = %+v", avail)
	}
	f.research.CompleteResearch("basics")
	avail = f.research.Available()
	if len(avail) != 2 || avail[0].ID != "attention" || avail[1].ID != "nets" {
		t.Fatalf("available = %+v", avail)
	}
}
