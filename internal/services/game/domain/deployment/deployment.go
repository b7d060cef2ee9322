// Package deployment holds the live systems built from completed research.
package deployment

import (
	"maps"
	"slices"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

// DefaultSlots is the starting deployment capacity.
const DefaultSlots = 3

// Deployment is a live system.
type Deployment struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ResearchID       string       `json:"researchId,omitempty"`
	Effects          core.Effects `json:"effects"`
	DeployedTurn     int          `json:"deployedTurn"`
	TurnsActive      int          `json:"turnsActive"`
	CumulativeImpact float64      `json:"cumulativeImpact"`
}

// Impact summarizes a deployment's lifetime at removal.
type Impact struct {
	TurnsActive int     `json:"turnsActive"`
	Score       float64 `json:"score"`
}

// Record is a removed deployment.
type Record struct {
	Deployment
	RemovedTurn int    `json:"removedTurn"`
	Impact      Impact `json:"impact"`
}

// State is the deployments slice. History is append-only.
type State struct {
	Slots   int                   `json:"slots"`
	Active  map[string]Deployment `json:"active"`
	History []Record              `json:"history"`
}

// New returns an empty deployments slice with the given capacity.
func New(slots int) *State {
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &State{Slots: slots, Active: map[string]Deployment{}, History: []Record{}}
}

// ActiveEffects returns the effects of every live system in id order.
func (s *State) ActiveEffects() []core.Effects {
	ids := slices.Sorted(maps.Keys(s.Active))
	out := make([]core.Effects, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Active[id].Effects)
	}
	return out
}

// FreeSlots is the remaining deployment capacity.
func (s *State) FreeSlots() int {
	return max(s.Slots-len(s.Active), 0)
}

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{
		action.TypeDeploySystem,
		action.TypeRemoveDeployment,
		action.TypeApplyDeploymentEffects,
	}
}

// Reduce applies an action to the deployments slice. It returns s itself
// when the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.DeploySystem:
		if a.ID == "" || s.FreeSlots() == 0 {
			return s
		}
		if _, exists := s.Active[a.ID]; exists {
			return s
		}
		next := *s
		next.Active = cloneActive(s.Active)
		next.Active[a.ID] = Deployment{
			ID:           a.ID,
			Name:         a.Name,
			ResearchID:   a.ResearchID,
			Effects:      a.Effects,
			DeployedTurn: a.Turn,
		}
		return &next
	case action.RemoveDeployment:
		dep, ok := s.Active[a.ID]
		if !ok {
			return s
		}
		next := *s
		next.Active = cloneActive(s.Active)
		delete(next.Active, a.ID)
		next.History = append(slices.Clone(s.History), Record{
			Deployment:  dep,
			RemovedTurn: a.Turn,
			Impact:      Impact{TurnsActive: dep.TurnsActive, Score: dep.CumulativeImpact},
		})
		return &next
	case action.ApplyDeploymentEffects:
		if len(s.Active) == 0 {
			return s
		}
		next := *s
		next.Active = make(map[string]Deployment, len(s.Active))
		for id, dep := range s.Active {
			dep.TurnsActive++
			dep.CumulativeImpact += dep.Effects.Magnitude()
			next.Active[id] = dep
		}
		return &next
	}
	return s
}

func cloneActive(active map[string]Deployment) map[string]Deployment {
	out := maps.Clone(active)
	if out == nil {
		out = map[string]Deployment{}
	}
	return out
}
