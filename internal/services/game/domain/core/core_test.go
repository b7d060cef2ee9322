package core

import (
	"math"
	"testing"
)

func TestPhaseNextCycles(t *testing.T) {
	p := PhaseStart
	want := []Phase{PhaseAction, PhaseResolution, PhaseEnd, PhaseStart}
	for _, w := range want {
		p = p.Next()
		if p != w {
			t.Fatalf("next = %s, want %s", p, w)
		}
	}
	if Phase("LUNCH").Valid() {
		t.Fatal("expected unknown phase to be invalid")
	}
}

func TestAppendBoundedDropsOldest(t *testing.T) {
	var history []int
	for i := 1; i <= 12; i++ {
		history = AppendBounded(history, i, HistoryLimit)
	}
	if len(history) != HistoryLimit {
		t.Fatalf("len = %d, want %d", len(history), HistoryLimit)
	}
	if history[0] != 3 || history[9] != 12 {
		t.Fatalf("history = %v, want 3..12", history)
	}
}

func TestAppendBoundedDoesNotWriteInput(t *testing.T) {
	base := make([]int, 2, 8)
	base[0], base[1] = 1, 2
	a := AppendBounded(base, 3, 10)
	b := AppendBounded(base, 4, 10)
	if a[2] != 3 || b[2] != 4 {
		t.Fatalf("a = %v, b = %v", a, b)
	}
}

func TestCostIsZero(t *testing.T) {
	if !(Cost{}).IsZero() {
		t.Fatal("expected empty cost to be zero")
	}
	if !(Cost{Influence: map[Faction]float64{FactionPublic: 0}, Data: &DataCost{}}).IsZero() {
		t.Fatal("expected zero-valued categories to be zero")
	}
	if (Cost{Data: &DataCost{Tiers: []string{"basic"}}}).IsZero() {
		t.Fatal("expected data tier cost to be non-zero")
	}
}

func TestFoldEffectsComposes(t *testing.T) {
	got := FoldEffects([]Effects{
		{ComputingEfficiency: 1.2, FundingIncome: 10, InfluenceMultipliers: map[Faction]float64{FactionAcademic: 1.5}},
		{ComputingEfficiency: 1.5, FundingIncome: 5, DataQualityBonus: 0.1},
		{FundingMultiplier: 0},
	})
	if math.Abs(got.ComputingEfficiency-1.8) > 1e-9 {
		t.Fatalf("efficiency = %v, want 1.8", got.ComputingEfficiency)
	}
	if got.FundingMultiplier != 1 {
		t.Fatalf("funding multiplier = %v, want 1", got.FundingMultiplier)
	}
	if got.FundingIncome != 15 {
		t.Fatalf("funding income = %v, want 15", got.FundingIncome)
	}
	if got.InfluenceMultipliers[FactionAcademic] != 1.5 || got.InfluenceMultipliers[FactionPublic] != 1 {
		t.Fatalf("influence multipliers = %v", got.InfluenceMultipliers)
	}
	again := FoldEffects([]Effects{
		{ComputingEfficiency: 1.2, FundingIncome: 10, InfluenceMultipliers: map[Faction]float64{FactionAcademic: 1.5}},
		{ComputingEfficiency: 1.5, FundingIncome: 5, DataQualityBonus: 0.1},
		{FundingMultiplier: 0},
	})
	if again.ComputingEfficiency != got.ComputingEfficiency || again.DataQualityBonus != got.DataQualityBonus {
		t.Fatal("expected fold to be repeatable")
	}
}

func TestEffectsMagnitude(t *testing.T) {
	e := Effects{ComputingEfficiency: 1.25, FundingIncome: -5}
	if got := e.Magnitude(); math.Abs(got-5.25) > 1e-9 {
		t.Fatalf("magnitude = %v, want 5.25", got)
	}
	if got := (Effects{}).Magnitude(); got != 0 {
		t.Fatalf("neutral magnitude = %v, want 0", got)
	}
}

func TestEventSpecChoice(t *testing.T) {
	ev := EventSpec{ID: "grant", Choices: []Choice{{ID: "accept"}, {ID: "decline"}}}
	if _, ok := ev.Choice("decline"); !ok {
		t.Fatal("expected decline choice")
	}
	if _, ok := ev.Choice("ignore"); ok {
		t.Fatal("expected missing choice")
	}
}
