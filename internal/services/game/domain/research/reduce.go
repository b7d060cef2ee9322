package research

import (
	"maps"
	"math"
	"slices"

	"github.com/louisbranch/singularity/internal/services/game/domain/action"
)

// ReduceHandledTypes returns the action types handled by Reduce.
func ReduceHandledTypes() []action.Type {
	return []action.Type{
		action.TypeStartResearch,
		action.TypeUpdateResearchProgress,
		action.TypeCompleteResearch,
		action.TypeCancelResearch,
		action.TypeUnlockResearch,
	}
}

// Reduce applies an action to the research slice. It returns s itself when
// the action changes nothing.
func Reduce(s *State, act action.Action) *State {
	if s == nil {
		return s
	}
	switch a := act.(type) {
	case action.StartResearch:
		return start(s, a)
	case action.UpdateResearchProgress:
		return progress(s, a.Turn)
	case action.CompleteResearch:
		node, ok := s.Nodes[a.ID]
		if !ok || s.IsCompleted(a.ID) {
			return s
		}
		return complete(s, node, a.Turn)
	case action.CancelResearch:
		return cancel(s, a.ID)
	case action.UnlockResearch:
		return unlock(s, a.IDs)
	}
	return s
}

// start requires every prerequisite to be completed. Progress carried over
// from a cancelled run is kept.
func start(s *State, a action.StartResearch) *State {
	node, ok := s.Nodes[a.ID]
	if !ok || s.IsActive(a.ID) || s.IsCompleted(a.ID) {
		return s
	}
	if len(s.MissingPrerequisites(a.ID)) > 0 {
		return s
	}
	node.Status = StatusInProgress
	node.ComputeAllocated = math.Max(a.ComputeAllocated, 0)
	node.StartTurn = a.Turn

	next := *s
	next.Nodes = maps.Clone(s.Nodes)
	next.Nodes[a.ID] = node
	next.Unlocked = without(s.Unlocked, a.ID)
	next.Active = append(slices.Clone(s.Active), a.ID)
	return &next
}

// progress advances each active node by ComputeAllocated * ProgressRate and
// completes those that reach their threshold. Prerequisites are not checked
// again here.
func progress(s *State, turn int) *State {
	if len(s.Active) == 0 {
		return s
	}
	var nodes map[string]Node
	var finished []string
	for _, id := range s.Active {
		node, ok := s.Nodes[id]
		if !ok {
			continue
		}
		gain := node.ComputeAllocated * ProgressRate
		if gain <= 0 {
			continue
		}
		node.Progress = math.Min(node.Progress+gain, node.Threshold())
		if node.Progress >= node.Threshold() {
			node.Status = StatusCompleted
			node.CompletionTurn = turn
			finished = append(finished, id)
		}
		if nodes == nil {
			nodes = maps.Clone(s.Nodes)
		}
		nodes[id] = node
	}
	if nodes == nil {
		return s
	}
	next := *s
	next.Nodes = nodes
	if len(finished) > 0 {
		next.Active = slices.DeleteFunc(slices.Clone(s.Active), func(id string) bool {
			return slices.Contains(finished, id)
		})
		next.Completed = append(slices.Clone(s.Completed), finished...)
	}
	return &next
}

func complete(s *State, node Node, turn int) *State {
	node.Status = StatusCompleted
	node.Progress = node.Threshold()
	node.CompletionTurn = turn

	next := *s
	next.Nodes = maps.Clone(s.Nodes)
	next.Nodes[node.ID] = node
	next.Active = without(s.Active, node.ID)
	next.Unlocked = without(s.Unlocked, node.ID)
	next.Completed = append(slices.Clone(s.Completed), node.ID)
	return &next
}

func cancel(s *State, id string) *State {
	node, ok := s.Nodes[id]
	if !ok || !s.IsActive(id) {
		return s
	}
	node.Status = StatusUnlocked
	node.ComputeAllocated = 0

	next := *s
	next.Nodes = maps.Clone(s.Nodes)
	next.Nodes[id] = node
	next.Active = without(s.Active, id)
	next.Unlocked = append(slices.Clone(s.Unlocked), id)
	return &next
}

// unlock adds ids that are known and in none of the three id lists.
func unlock(s *State, ids []string) *State {
	var unlocked []string
	var nodes map[string]Node
	for _, id := range ids {
		node, ok := s.Nodes[id]
		if !ok || s.IsActive(id) || s.IsCompleted(id) || s.IsUnlocked(id) || slices.Contains(unlocked, id) {
			continue
		}
		if nodes == nil {
			nodes = maps.Clone(s.Nodes)
		}
		node.Status = StatusUnlocked
		nodes[id] = node
		unlocked = append(unlocked, id)
	}
	if len(unlocked) == 0 {
		return s
	}
	next := *s
	next.Nodes = nodes
	next.Unlocked = append(slices.Clone(s.Unlocked), unlocked...)
	return &next
}

// without returns a copy of ids with id removed, or ids itself when absent.
func without(ids []string, id string) []string {
	if !slices.Contains(ids, id) {
		return ids
	}
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}
