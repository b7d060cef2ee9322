package resource

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

const defaultDecayRate = 0.01

// generateData decays quality toward MinQuality and adds the generation
// rate to each data type.
func generateData(d *Data) *Data {
	if d == nil || len(d.Types) == 0 {
		return d
	}
	var types map[core.DataType]DataRecord
	for kind, rec := range d.Types {
		updated := rec
		if rec.DecayRate > 0 {
			updated.Quality = math.Max(MinQuality, rec.Quality-rec.DecayRate)
		}
		updated.Quality = clamp(updated.Quality, MinQuality, MaxQuality)
		if rec.GenerationRate > 0 {
			updated.Amount = rec.Amount + rec.GenerationRate
		}
		if updated.Quality == rec.Quality && updated.Amount == rec.Amount {
			continue
		}
		if types == nil {
			types = maps.Clone(d.Types)
		}
		types[kind] = updated
	}
	if types == nil {
		return d
	}
	next := *d
	next.Types = types
	return &next
}

// revokeData clears the tiers and specialized sets named by cost.
func revokeData(d *Data, cost *core.DataCost) *Data {
	if d == nil || cost == nil {
		return d
	}
	tiers, tiersChanged := revokeFlags(d.Tiers, cost.Tiers)
	sets, setsChanged := revokeFlags(d.SpecializedSets, cost.SpecializedSets)
	if !tiersChanged && !setsChanged {
		return d
	}
	next := *d
	next.Tiers = tiers
	next.SpecializedSets = sets
	return &next
}

// revokeFlags returns flags itself when no named flag is currently set.
func revokeFlags(flags map[string]bool, names []string) (map[string]bool, bool) {
	var out map[string]bool
	for _, name := range names {
		if !flags[name] {
			continue
		}
		if out == nil {
			out = maps.Clone(flags)
		}
		out[name] = false
	}
	if out == nil {
		return flags, false
	}
	return out, true
}

func acquireData(d *Data, a action.AcquireData) *Data {
	if d == nil || a.DataType == "" || a.Amount < 0 || math.IsNaN(a.Amount) {
		return d
	}
	quality := a.Quality
	if quality <= 0 {
		quality = 0.5
	}
	quality = clamp(quality, MinQuality, MaxQuality)

	rec, ok := d.Types[a.DataType]
	if !ok {
		rec = DataRecord{Quality: quality, DecayRate: defaultDecayRate, Sources: []string{}, InUse: []string{}}
	}
	if total := rec.Amount + a.Amount; total > 0 {
		rec.Quality = clamp((rec.Quality*rec.Amount+quality*a.Amount)/total, MinQuality, MaxQuality)
	}
	rec.Amount += a.Amount
	if a.Source != "" && !slices.Contains(rec.Sources, a.Source) {
		rec.Sources = append(slices.Clone(rec.Sources), a.Source)
	}

	next := *d
	next.Types = maps.Clone(d.Types)
	if next.Types == nil {
		next.Types = map[core.DataType]DataRecord{}
	}
	next.Types[a.DataType] = rec
	if a.Tier != "" && !d.Tiers[a.Tier] {
		next.Tiers = maps.Clone(d.Tiers)
		if next.Tiers == nil {
			next.Tiers = map[string]bool{}
		}
		next.Tiers[a.Tier] = true
	}
	if a.SpecializedSet != "" && !d.SpecializedSets[a.SpecializedSet] {
		next.SpecializedSets = maps.Clone(d.SpecializedSets)
		if next.SpecializedSets == nil {
			next.SpecializedSets = map[string]bool{}
		}
		next.SpecializedSets[a.SpecializedSet] = true
	}
	next.AcquisitionHistory = core.AppendBounded(d.AcquisitionHistory, AcquisitionEntry{
		Turn:     a.Turn,
		DataType: a.DataType,
		Amount:   a.Amount,
		Quality:  quality,
		Source:   a.Source,
	}, core.HistoryLimit)
	return &next
}

func claimData(d *Data, kind core.DataType, claimant string) *Data {
	if d == nil || claimant == "" {
		return d
	}
	rec, ok := d.Types[kind]
	if !ok || slices.Contains(rec.InUse, claimant) {
		return d
	}
	rec.InUse = append(slices.Clone(rec.InUse), claimant)
	return d.withRecord(kind, rec)
}

func releaseData(d *Data, kind core.DataType, claimant string) *Data {
	if d == nil {
		return d
	}
	rec, ok := d.Types[kind]
	if !ok || !slices.Contains(rec.InUse, claimant) {
		return d
	}
	rec.InUse = slices.DeleteFunc(slices.Clone(rec.InUse), func(id string) bool { return id == claimant })
	return d.withRecord(kind, rec)
}

func (d *Data) withRecord(kind core.DataType, rec DataRecord) *Data {
	next := *d
	next.Types = maps.Clone(d.Types)
	next.Types[kind] = rec
	return &next
}

// updateDataFields handles "<type>.<field>" keys.
func updateDataFields(d *Data, fields map[string]float64) *Data {
	if d == nil {
		return d
	}
	var types map[core.DataType]DataRecord
	for key, value := range fields {
		kind, field, ok := strings.Cut(key, ".")
		if !ok || kind == "" {
			continue
		}
		rec, exists := d.Types[core.DataType(kind)]
		if types != nil {
			if staged, ok := types[core.DataType(kind)]; ok {
				rec, exists = staged, true
			}
		}
		if !exists {
			rec = DataRecord{Quality: 0.5, DecayRate: defaultDecayRate, Sources: []string{}, InUse: []string{}}
		}
		updated := rec
		switch field {
		case "amount":
			updated.Amount = math.Max(value, 0)
		case "quality":
			updated.Quality = clamp(value, MinQuality, MaxQuality)
		case "decayRate":
			updated.DecayRate = math.Max(value, 0)
		case "generationRate":
			updated.GenerationRate = value
		default:
			continue
		}
		if exists && updated.Amount == rec.Amount && updated.Quality == rec.Quality &&
			updated.DecayRate == rec.DecayRate && updated.GenerationRate == rec.GenerationRate {
			continue
		}
		if types == nil {
			types = maps.Clone(d.Types)
			if types == nil {
				types = map[core.DataType]DataRecord{}
			}
		}
		types[core.DataType(kind)] = updated
	}
	if types == nil {
		return d
	}
	next := *d
	next.Types = types
	return &next
}
