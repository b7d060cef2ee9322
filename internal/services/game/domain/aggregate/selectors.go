package aggregate

// Slice names.
const (
	SliceMeta        = "meta"
	SliceResources   = "resources"
	SliceResearch    = "research"
	SliceDeployments = "deployments"
	SliceEvents      = "events"
	SliceWorld       = "world"
	SliceCompetitors = "competitors"
	SliceSettings    = "settings"
)

// Selector extracts a comparable value from the root state. Selected slice
// pointers compare by identity.
type Selector func(*State) any

// Select returns the selector for a named slice.
func Select(slice string) (Selector, bool) {
	sel, ok := selectors[slice]
	return sel, ok
}

var selectors = map[string]Selector{
	SliceMeta:        func(s *State) any { return s.Meta },
	SliceResources:   func(s *State) any { return s.Resources },
	SliceResearch:    func(s *State) any { return s.Research },
	SliceDeployments: func(s *State) any { return s.Deployments },
	SliceEvents:      func(s *State) any { return s.Events },
	SliceWorld:       func(s *State) any { return s.World },
	SliceCompetitors: func(s *State) any { return s.Competitors },
	SliceSettings:    func(s *State) any { return s.Settings },
}
