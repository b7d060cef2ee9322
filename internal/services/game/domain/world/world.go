// Package world holds global scalars and regional state.
package world

import (
	"maps"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
)

// Region is a named area with its own scalars.
type Region struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
}

// State is the world slice.
type State struct {
	Globals map[string]float64 `json:"globals"`
	Regions map[string]Region  `json:"regions"`
}

// New returns the world slice with the given globals and regions.
func New(globals map[string]float64, regions []Region) *State {
	s := &State{Globals: maps.Clone(globals), Regions: make(map[string]Region, len(regions))}
	if s.Globals == nil {
		s.Globals = map[string]float64{}
	}
	for _, r := range regions {
		if r.ID == "" {
			continue
		}
		r.Values = maps.Clone(r.Values)
		if r.Values == nil {
			r.Values = map[string]float64{}
		}
		s.Regions[r.ID] = r
	}
	return s
}

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{action.TypeUpdateGlobalValues, action.TypeUpdateRegion}
}

// Reduce applies an action to the world slice. It returns s itself when
// the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.UpdateGlobalValues:
		globals, changed := merge(s.Globals, a.Values)
		if !changed {
			return s
		}
		next := *s
		next.Globals = globals
		return &next
	case action.UpdateRegion:
		if a.ID == "" {
			return s
		}
		region, exists := s.Regions[a.ID]
		if !exists {
			region = Region{ID: a.ID, Name: a.ID}
		}
		values, changed := merge(region.Values, a.Fields)
		if a.Name != "" && a.Name != region.Name {
			region.Name = a.Name
			changed = true
		}
		if !changed && exists {
			return s
		}
		region.Values = values
		if region.Values == nil {
			region.Values = map[string]float64{}
		}
		next := *s
		next.Regions = maps.Clone(s.Regions)
		if next.Regions == nil {
			next.Regions = map[string]Region{}
		}
		next.Regions[a.ID] = region
		return &next
	}
	return s
}

// merge overwrites dst keys with src values, cloning dst only when a value
// actually differs.
func merge(dst, src map[string]float64) (map[string]float64, bool) {
	var out map[string]float64
	for key, value := range src {
		if current, ok := dst[key]; ok && current == value {
			continue
		}
		if out == nil {
			out = maps.Clone(dst)
			if out == nil {
				out = map[string]float64{}
			}
		}
		out[key] = value
	}
	if out == nil {
		return dst, false
	}
	return out, true
}
