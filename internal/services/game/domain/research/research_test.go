package research

import (
	"math/rand"
	"testing"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
)

func testTree() []Definition {
	return []Definition{
		{ID: "basics", Name: "ML Basics"},
		{ID: "nets", Name: "Neural Nets", Prerequisites: []string{"basics"}},
		{ID: "transformers", Name: "Transformers", Prerequisites: []string{"nets"}, RequiredProgress: 50, Breakthrough: true},
		{ID: "alignment", Name: "Alignment", Prerequisites: []string{"basics"}},
	}
}

func TestNewUnlocksRoots(t *testing.T) {
	s := New(testTree())
	if len(s.Unlocked) != 1 || s.Unlocked[0] != "basics" {
		t.Fatalf("unlocked = %v, want [basics]", s.Unlocked)
	}
	if s.Nodes["nets"].Status != StatusLocked {
		t.Fatalf("nets status = %s, want LOCKED", s.Nodes["nets"].Status)
	}
}

func TestStartRequiresPrerequisites(t *testing.T) {
	s := New(testTree())
	if got := Reduce(s, action.StartResearch{ID: "nets", ComputeAllocated: 10}); got != s {
		t.Fatal("expected identity when prerequisites are missing")
	}
	if got := Reduce(s, action.StartResearch{ID: "ghost"}); got != s {
		t.Fatal("expected identity for unknown node")
	}
	next := Reduce(s, action.StartResearch{ID: "basics", ComputeAllocated: 10, Turn: 3})
	if !next.IsActive("basics") || next.IsUnlocked("basics") {
		t.Fatalf("active = %v, unlocked = %v", next.Active, next.Unlocked)
	}
	if next.Nodes["basics"].Status != StatusInProgress || next.Nodes["basics"].StartTurn != 3 {
		t.Fatalf("node = %+v", next.Nodes["basics"])
	}
	if s.Nodes["basics"].Status != StatusUnlocked {
		t.Fatal("input nodes were mutated")
	}
	if again := Reduce(next, action.StartResearch{ID: "basics"}); again != next {
		t.Fatal("expected identity when already active")
	}
}

func TestProgressCompletesAtThreshold(t *testing.T) {
	s := New(testTree())
	s = Reduce(s, action.StartResearch{ID: "basics", ComputeAllocated: 400})
	s = Reduce(s, action.UpdateResearchProgress{Turn: 1})
	if got := s.Nodes["basics"].Progress; got != 40 {
		t.Fatalf("progress = %v, want 40", got)
	}
	s = Reduce(s, action.UpdateResearchProgress{Turn: 2})
	s = Reduce(s, action.UpdateResearchProgress{Turn: 3})
	node := s.Nodes["basics"]
	if node.Status != StatusCompleted || node.Progress != DefaultRequiredProgress || node.CompletionTurn != 3 {
		t.Fatalf("node = %+v", node)
	}
	if s.IsActive("basics") || !s.IsCompleted("basics") {
		t.Fatalf("active = %v, completed = %v", s.Active, s.Completed)
	}
	if got := Reduce(s, action.UpdateResearchProgress{Turn: 4}); got != s {
		t.Fatal("expected identity without active research")
	}
}

func TestProgressWithoutComputeIsIdentity(t *testing.T) {
	s := Reduce(New(testTree()), action.StartResearch{ID: "basics"})
	if got := Reduce(s, action.UpdateResearchProgress{}); got != s {
		t.Fatal("expected identity when nothing is allocated")
	}
}

func TestCancelReturnsToUnlocked(t *testing.T) {
	s := Reduce(New(testTree()), action.StartResearch{ID: "basics", ComputeAllocated: 10})
	s = Reduce(s, action.UpdateResearchProgress{})
	s = Reduce(s, action.CancelResearch{ID: "basics"})
	if !s.IsUnlocked("basics") || s.IsActive("basics") {
		t.Fatalf("active = %v, unlocked = %v", s.Active, s.Unlocked)
	}
	node := s.Nodes["basics"]
	if node.ComputeAllocated != 0 || node.Progress != 1 {
		t.Fatalf("node = %+v", node)
	}
	if got := Reduce(s, action.CancelResearch{ID: "basics"}); got != s {
		t.Fatal("expected identity when not active")
	}
}

func TestUnlockSkipsKnownLists(t *testing.T) {
	s := New(testTree())
	s = Reduce(s, action.CompleteResearch{ID: "basics"})
	got := Reduce(s, action.UnlockResearch{IDs: []string{"basics", "nets", "nets", "ghost"}})
	if len(got.Unlocked) != 1 || got.Unlocked[0] != "nets" {
		t.Fatalf("unlocked = %v, want [nets]", got.Unlocked)
	}
	if again := Reduce(got, action.UnlockResearch{IDs: []string{"nets"}}); again != got {
		t.Fatal("expected identity for already unlocked node")
	}
}

func TestUnlockable(t *testing.T) {
	s := Reduce(New(testTree()), action.CompleteResearch{ID: "basics"})
	got := s.Unlockable()
	if len(got) != 2 || got[0] != "alignment" || got[1] != "nets" {
		t.Fatalf("unlockable = %v, want [alignment nets]", got)
	}
}

func TestResearchListsStayDisjoint(t *testing.T) {
	ids := []string{"basics", "nets", "transformers", "alignment", "ghost"}
	rng := rand.New(rand.NewSource(7))
	s := New(testTree())
	for step := 0; step < 500; step++ {
		id := ids[rng.Intn(len(ids))]
		var act action.Action
		switch rng.Intn(5) {
		case 0:
			act = action.StartResearch{ID: id, ComputeAllocated: float64(rng.Intn(300))}
		case 1:
			act = action.UnlockResearch{IDs: []string{id, ids[rng.Intn(len(ids))]}}
		case 2:
			act = action.CompleteResearch{ID: id}
		case 3:
			act = action.CancelResearch{ID: id}
		default:
			act = action.UpdateResearchProgress{Turn: step}
		}
		s = Reduce(s, act)
		seen := map[string]string{}
		for name, list := range map[string][]string{"active": s.Active, "completed": s.Completed, "unlocked": s.Unlocked} {
			for _, v := range list {
				if prev, ok := seen[v]; ok {
					t.Fatalf("step %d: %s in both %s and %s", step, v, prev, name)
				}
				seen[v] = name
			}
		}
	}
}
