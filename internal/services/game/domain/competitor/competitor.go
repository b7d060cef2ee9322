// Package competitor holds rival labs and their per-turn growth.
package competitor

import (
	"maps"
	"math"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
)

// MaxResearchProgress caps a competitor's research progress.
const MaxResearchProgress = 100.0

// Competitor is a rival lab.
type Competitor struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	Capability       float64 `json:"capability" yaml:"capability"`
	Funding          float64 `json:"funding" yaml:"funding"`
	GrowthRate       float64 `json:"growthRate" yaml:"growthRate"`
	ResearchProgress float64 `json:"researchProgress" yaml:"researchProgress"`
	Aggression       float64 `json:"aggression" yaml:"aggression"`
	LastUpdated      int     `json:"lastUpdated" yaml:"-"`
}

// State is the competitors slice.
type State struct {
	Competitors map[string]Competitor `json:"competitors"`
}

// New returns the competitors slice.
func New(rivals []Competitor) *State {
	s := &State{Competitors: make(map[string]Competitor, len(rivals))}
	for _, c := range rivals {
		if c.ID == "" {
			continue
		}
		s.Competitors[c.ID] = c
	}
	return s
}

// Leader returns the competitor with the highest research progress.
func (s *State) Leader() (Competitor, bool) {
	var best Competitor
	found := false
	for _, c := range s.Competitors {
		if !found || c.ResearchProgress > best.ResearchProgress ||
			(c.ResearchProgress == best.ResearchProgress && c.ID < best.ID) {
			best = c
			found = true
		}
	}
	return best, found
}

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{action.TypeUpdateCompetitor, action.TypeUpdateCompetitors}
}

// Reduce applies an action to the competitors slice. It returns s itself
// when the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.UpdateCompetitor:
		c, ok := s.Competitors[a.ID]
		if !ok || len(a.Fields) == 0 {
			return s
		}
		updated := c
		for key, value := range a.Fields {
			switch key {
			case "capability":
				updated.Capability = math.Max(value, 0)
			case "funding":
				updated.Funding = value
			case "growthRate":
				updated.GrowthRate = value
			case "researchProgress":
				updated.ResearchProgress = math.Min(math.Max(value, 0), MaxResearchProgress)
			case "aggression":
				updated.Aggression = value
			}
		}
		if updated == c {
			return s
		}
		next := *s
		next.Competitors = maps.Clone(s.Competitors)
		next.Competitors[a.ID] = updated
		return &next
	case action.UpdateCompetitors:
		return grow(s, a.Turn)
	}
	return s
}

// grow advances every competitor once per turn. A competitor already
// updated for turn is skipped, so replaying the same turn is a no-op.
func grow(s *State, turn int) *State {
	var out map[string]Competitor
	for id, c := range s.Competitors {
		if turn > 0 && c.LastUpdated >= turn {
			continue
		}
		c.Capability += c.GrowthRate
		c.ResearchProgress = math.Min(c.ResearchProgress+c.GrowthRate/2, MaxResearchProgress)
		c.Funding += c.Funding * c.GrowthRate / 100
		c.LastUpdated = turn
		if out == nil {
			out = maps.Clone(s.Competitors)
		}
		out[id] = c
	}
	if out == nil {
		return s
	}
	return &State{Competitors: out}
}
