package research

import (
	"slices"

	"github.com/louisbranch/singularity/internal/services/game/domain/core"
)

const (
	// ProgressRate converts allocated compute into progress per resolution.
	ProgressRate = 0.1
	// DefaultRequiredProgress is the completion threshold for nodes that do
	// not set one.
	DefaultRequiredProgress = 100.0
)

// Status is a node's run-time state.
type Status string

const (
	StatusLocked     Status = "LOCKED"
	StatusUnlocked   Status = "UNLOCKED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Position places a node on the research tree display.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Definition is the static part of a research node.
type Definition struct {
	ID               string       `json:"id" yaml:"id"`
	Name             string       `json:"name" yaml:"name"`
	Category         string       `json:"category,omitempty" yaml:"category"`
	Description      string       `json:"description,omitempty" yaml:"description"`
	Prerequisites    []string     `json:"prerequisites,omitempty" yaml:"prerequisites"`
	Cost             core.Cost    `json:"cost" yaml:"cost"`
	Effects          core.Effects `json:"effects" yaml:"effects"`
	Risk             float64      `json:"risk,omitempty" yaml:"risk"`
	Position         Position     `json:"position" yaml:"position"`
	Breakthrough     bool         `json:"breakthrough,omitempty" yaml:"breakthrough"`
	RequiredProgress float64      `json:"requiredProgress,omitempty" yaml:"requiredProgress"`
}

// Threshold is the progress at which the node completes.
func (d Definition) Threshold() float64 {
	if d.RequiredProgress > 0 {
		return d.RequiredProgress
	}
	return DefaultRequiredProgress
}

// Node is a research node with its run-time fields.
type Node struct {
	Definition
	Status           Status  `json:"status"`
	Progress         float64 `json:"progress"`
	ComputeAllocated float64 `json:"computeAllocated"`
	StartTurn        int     `json:"startTurn,omitempty"`
	CompletionTurn   int     `json:"completionTurn,omitempty"`
}

// State is the research slice. Active, Completed, and Unlocked are
// pairwise disjoint; locked nodes appear in none of them.
type State struct {
	Nodes     map[string]Node `json:"nodes"`
	Active    []string        `json:"activeResearch"`
	Completed []string        `json:"completed"`
	Unlocked  []string        `json:"unlocked"`
}

// New builds the research slice from the static tree. Nodes without
// prerequisites start unlocked.
func New(defs []Definition) *State {
	s := &State{
		Nodes:     make(map[string]Node, len(defs)),
		Active:    []string{},
		Completed: []string{},
		Unlocked:  []string{},
	}
	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		if _, dup := s.Nodes[def.ID]; dup {
			continue
		}
		node := Node{Definition: def, Status: StatusLocked}
		if len(def.Prerequisites) == 0 {
			node.Status = StatusUnlocked
			s.Unlocked = append(s.Unlocked, def.ID)
		}
		s.Nodes[def.ID] = node
	}
	return s
}

// IsActive reports whether id is being researched.
func (s *State) IsActive(id string) bool { return slices.Contains(s.Active, id) }

// IsCompleted reports whether id has been completed.
func (s *State) IsCompleted(id string) bool { return slices.Contains(s.Completed, id) }

// IsUnlocked reports whether id is available to start.
func (s *State) IsUnlocked(id string) bool { return slices.Contains(s.Unlocked, id) }

// MissingPrerequisites lists the prerequisites of id not yet completed.
func (s *State) MissingPrerequisites(id string) []string {
	node, ok := s.Nodes[id]
	if !ok {
		return nil
	}
	var missing []string
	for _, pre := range node.Prerequisites {
		if !s.IsCompleted(pre) {
			missing = append(missing, pre)
		}
	}
	return missing
}

// Unlockable lists locked nodes whose prerequisites are all completed, in
// id order.
func (s *State) Unlockable() []string {
	var ids []string
	for id := range s.Nodes {
		if s.IsActive(id) || s.IsCompleted(id) || s.IsUnlocked(id) {
			continue
		}
		if len(s.MissingPrerequisites(id)) == 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
