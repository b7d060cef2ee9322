package core

import "math"

// Effects is a bundle of multipliers and bonuses carried by research nodes
// and the deployments built from them. A zero multiplier is neutral.
type Effects struct {
	ComputingEfficiency  float64             `json:"computingEfficiency,omitempty" yaml:"computingEfficiency"`
	FundingMultiplier    float64             `json:"fundingMultiplier,omitempty" yaml:"fundingMultiplier"`
	InfluenceMultipliers map[Faction]float64 `json:"influenceMultipliers,omitempty" yaml:"influenceMultipliers"`
	DataQualityBonus     float64             `json:"dataQualityBonus,omitempty" yaml:"dataQualityBonus"`
	ComputingGeneration  float64             `json:"computingGeneration,omitempty" yaml:"computingGeneration"`
	FundingIncome        float64             `json:"fundingIncome,omitempty" yaml:"fundingIncome"`
	InfluenceGeneration  map[Faction]float64 `json:"influenceGeneration,omitempty" yaml:"influenceGeneration"`
}

// Magnitude scores how far the bundle departs from neutral. Deployments
// accumulate it once per turn as their impact.
func (e Effects) Magnitude() float64 {
	total := 0.0
	multiplier := func(m float64) {
		if m != 0 {
			total += math.Abs(m - 1)
		}
	}
	multiplier(e.ComputingEfficiency)
	multiplier(e.FundingMultiplier)
	for _, m := range e.InfluenceMultipliers {
		multiplier(m)
	}
	total += math.Abs(e.DataQualityBonus)
	total += math.Abs(e.ComputingGeneration)
	total += math.Abs(e.FundingIncome)
	for _, bonus := range e.InfluenceGeneration {
		total += math.Abs(bonus)
	}
	return total
}

// Combined is the fold of several effect bundles: multipliers compose by
// product starting from 1, bonuses compose by sum starting from 0.
type Combined struct {
	ComputingEfficiency  float64             `json:"computingEfficiency"`
	FundingMultiplier    float64             `json:"fundingMultiplier"`
	InfluenceMultipliers map[Faction]float64 `json:"influenceMultipliers"`
	DataQualityBonus     float64             `json:"dataQualityBonus"`
	ComputingGeneration  float64             `json:"computingGeneration"`
	FundingIncome        float64             `json:"fundingIncome"`
	InfluenceGeneration  map[Faction]float64 `json:"influenceGeneration"`
}

// NeutralEffects returns the identity of the fold.
func NeutralEffects() Combined {
	c := Combined{
		ComputingEfficiency:  1,
		FundingMultiplier:    1,
		InfluenceMultipliers: make(map[Faction]float64, len(Factions)),
		InfluenceGeneration:  make(map[Faction]float64, len(Factions)),
	}
	for _, f := range Factions {
		c.InfluenceMultipliers[f] = 1
		c.InfluenceGeneration[f] = 0
	}
	return c
}

// FoldEffects combines bundles from scratch. The result does not depend on
// any previous fold, so repeated calls over the same input agree.
func FoldEffects(bundles []Effects) Combined {
	c := NeutralEffects()
	for _, e := range bundles {
		if e.ComputingEfficiency != 0 {
			c.ComputingEfficiency *= e.ComputingEfficiency
		}
		if e.FundingMultiplier != 0 {
			c.FundingMultiplier *= e.FundingMultiplier
		}
		for f, m := range e.InfluenceMultipliers {
			if m != 0 && f.Valid() {
				c.InfluenceMultipliers[f] *= m
			}
		}
		c.DataQualityBonus += e.DataQualityBonus
		c.ComputingGeneration += e.ComputingGeneration
		c.FundingIncome += e.FundingIncome
		for f, bonus := range e.InfluenceGeneration {
			if f.Valid() {
				c.InfluenceGeneration[f] += bonus
			}
		}
	}
	return c
}
