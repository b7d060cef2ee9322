package resource

import (
	"math"

	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

func generateInfluence(i *Influence, deltas map[core.Faction]float64, turn int) *Influence {
	if i == nil || len(deltas) == 0 {
		return i
	}
	next := *i
	for _, f := range core.Factions {
		delta, ok := deltas[f]
		if !ok || math.IsNaN(delta) {
			continue
		}
		next.set(f, clamp(i.Get(f)+delta, 0, MaxInfluence))
	}
	next.History = core.AppendBounded(i.History, InfluenceEntry{
		Turn:   turn,
		Levels: next.Levels(),
	}, core.HistoryLimit)
	return &next
}

// spendInfluence debits each named faction, flooring at zero.
func spendInfluence(i *Influence, cost map[core.Faction]float64) *Influence {
	if i == nil {
		return i
	}
	next := *i
	changed := false
	for _, f := range core.Factions {
		amount, ok := cost[f]
		if !ok || !usable(amount) {
			continue
		}
		next.set(f, math.Max(0, i.Get(f)-amount))
		changed = true
	}
	if !changed {
		return i
	}
	return &next
}

func updateInfluenceFields(i *Influence, fields map[string]float64) *Influence {
	if i == nil {
		return i
	}
	next := *i
	changed := false
	for key, value := range fields {
		f := core.Faction(key)
		if !f.Valid() || i.Get(f) == value {
			continue
		}
		next.set(f, clamp(value, 0, MaxInfluence))
		changed = true
	}
	if !changed {
		return i
	}
	return &next
}
