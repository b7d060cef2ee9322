package competitor

import (
	"testing"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
)

func rivals() []Competitor {
	return []Competitor{
		{ID: "deepfield", Name: "DeepField", Capability: 10, Funding: 1000, GrowthRate: 2},
		{ID: "openmind", Name: "OpenMind", Capability: 8, Funding: 500, GrowthRate: 4, ResearchProgress: 99},
	}
}

func TestUpdateCompetitorsGrowsOncePerTurn(t *testing.T) {
	s := New(rivals())
	next := Reduce(s, action.UpdateCompetitors{Turn: 1})
	df := next.Competitors["deepfield"]
	if df.Capability != 12 || df.ResearchProgress != 1 || df.Funding != 1020 || df.LastUpdated != 1 {
		t.Fatalf("deepfield = %+v", df)
	}
	if next.Competitors["openmind"].ResearchProgress != MaxResearchProgress {
		t.Fatalf("openmind progress = %v, want cap", next.Competitors["openmind"].ResearchProgress)
	}
	if s.Competitors["deepfield"].Capability != 10 {
		t.Fatal("input competitors were mutated")
	}
	if again := Reduce(next, action.UpdateCompetitors{Turn: 1}); again != next {
		t.Fatal("expected identity when turn already applied")
	}
}

func TestUpdateCompetitorFields(t *testing.T) {
	s := New(rivals())
	next := Reduce(s, action.UpdateCompetitor{ID: "openmind", Fields: map[string]float64{"aggression": 0.8}})
	if next.Competitors["openmind"].Aggression != 0.8 {
		t.Fatalf("openmind = %+v", next.Competitors["openmind"])
	}
	if got := Reduce(s, action.UpdateCompetitor{ID: "ghost", Fields: map[string]float64{"aggression": 1}}); got != s {
		t.Fatal("expected identity for unknown competitor")
	}
	if got := Reduce(next, action.UpdateCompetitor{ID: "openmind", Fields: map[string]float64{"aggression": 0.8}}); got != next {
		t.Fatal("expected identity for unchanged field")
	}
}

func TestLeader(t *testing.T) {
	s := New(rivals())
	leader, ok := s.Leader()
	if !ok || leader.ID != "openmind" {
		t.Fatalf("leader = %+v", leader)
	}
	if _, ok := New(nil).Leader(); ok {
		t.Fatal("expected no leader")
	}
}
