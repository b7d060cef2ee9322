package deployment

import (
	"testing"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

func TestDeployRespectsSlots(t *testing.T) {
	s := New(1)
	s = Reduce(s, action.DeploySystem{ID: "d1", Name: "Assistant", Turn: 2})
	if len(s.Active) != 1 || s.Active["d1"].DeployedTurn != 2 {
		t.Fatalf("active = %+v", s.Active)
	}
	if got := Reduce(s, action.DeploySystem{ID: "d2"}); got != s {
		t.Fatal("expected identity when slots are full")
	}
	if got := Reduce(New(2), action.DeploySystem{}); got == nil || len(got.Active) != 0 {
		t.Fatal("expected empty id to be ignored")
	}
}

func TestApplyEffectsAgesDeployments(t *testing.T) {
	s := New(0)
	if s.Slots != DefaultSlots {
		t.Fatalf("slots = %d, want %d", s.Slots, DefaultSlots)
	}
	if got := Reduce(s, action.ApplyDeploymentEffects{}); got != s {
		t.Fatal("expected identity without deployments")
	}
	s = Reduce(s, action.DeploySystem{ID: "d1", Effects: core.Effects{ComputingEfficiency: 1.5}})
	before := s
	s = Reduce(s, action.ApplyDeploymentEffects{Turn: 1})
	s = Reduce(s, action.ApplyDeploymentEffects{Turn: 2})
	dep := s.Active["d1"]
	if dep.TurnsActive != 2 || dep.CumulativeImpact != 1 {
		t.Fatalf("deployment = %+v", dep)
	}
	if before.Active["d1"].TurnsActive != 0 {
		t.Fatal("input deployment was mutated")
	}
}

func TestRemoveRecordsImpact(t *testing.T) {
	s := Reduce(New(2), action.DeploySystem{ID: "d1", Effects: core.Effects{FundingIncome: 4}})
	s = Reduce(s, action.ApplyDeploymentEffects{})
	s = Reduce(s, action.RemoveDeployment{ID: "d1", Turn: 5})
	if len(s.Active) != 0 || len(s.History) != 1 {
		t.Fatalf("state = %+v", s)
	}
	rec := s.History[0]
	if rec.RemovedTurn != 5 || rec.Impact.TurnsActive != 1 || rec.Impact.Score != 4 {
		t.Fatalf("record = %+v", rec)
	}
	if got := Reduce(s, action.RemoveDeployment{ID: "d1"}); got != s {
		t.Fatal("expected identity for unknown deployment")
	}
}

func TestActiveEffectsOrdered(t *testing.T) {
	s := New(3)
	s = Reduce(s, action.DeploySystem{ID: "b", Effects: core.Effects{FundingIncome: 2}})
	s = Reduce(s, action.DeploySystem{ID: "a", Effects: core.Effects{FundingIncome: 1}})
	effects := s.ActiveEffects()
	if len(effects) != 2 || effects[0].FundingIncome != 1 {
		t.Fatalf("effects = %+v", effects)
	}
	if s.FreeSlots() != 1 {
		t.Fatalf("free slots = %d, want 1", s.FreeSlots())
	}
}
