package systems

import (
	"slices"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/research"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

const researchSource = "research"

// ResearchTarget is the computing allocation key for a research project.
func ResearchTarget(id string) string {
	return "research:" + id
}

// ResearchStarted is the payload of research:started.
type ResearchStarted struct {
	ID      string
	Compute float64
	Turn    int
}

// ResearchCompletion is the payload of research:complete,
// research:breakthrough, and research:completed.
type ResearchCompletion struct {
	ID           string
	Name         string
	Turn         int
	Breakthrough bool
	Unlocked     []string
}

// ResearchSystem starts and cancels research and reacts to completions.
type ResearchSystem struct {
	states    StateStore
	bus       *eventbus.Bus
	resources *ResourceSystem
	log       logging.Logger

	mu          sync.Mutex
	unsubscribe func()
}

// NewResearchSystem creates a research coordinator. Costs are paid through
// resources.
func NewResearchSystem(states StateStore, bus *eventbus.Bus, resources *ResourceSystem, opts ...Option) *ResearchSystem {
	cfg := newConfig(opts)
	return &ResearchSystem{
		states:    states,
		bus:       bus,
		resources: resources,
		log:       logging.Component(cfg.log, researchSource),
	}
}

// Start begins watching the research slice for completions.
func (s *ResearchSystem) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	selector, _ := aggregate.Select(aggregate.SliceResearch)
	s.unsubscribe = s.states.SubscribeToSlice(selector, func(prev, next *aggregate.State, _ action.Action) {
		for _, id := range next.Research.Completed {
			if !prev.Research.IsCompleted(id) {
				s.completed(id)
			}
		}
	})
}

// Stop stops watching for completions.
func (s *ResearchSystem) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// StartResearch pays the project's cost, allocates compute to it, and
// starts it. Data requirements are checked but not consumed.
func (s *ResearchSystem) StartResearch(id string, compute float64) error {
	state := s.states.State()
	if err := s.checkStart(state, id, compute); err != nil {
		s.fail("start", err, id, compute)
		return err
	}
	node := state.Research.Nodes[id]
	target := ResearchTarget(id)

	cost := node.Cost
	check := cost
	check.Computing += compute
	if err := s.resources.CheckCost(check); err != nil {
		s.fail("start", err, id, compute)
		return err
	}

	if !s.resources.Spend(cost.WithoutData(), target, false) {
		err := apperrors.New(apperrors.CodeUnknown, "research cost could not be paid")
		s.fail("start", err, id, compute)
		return err
	}
	if compute > 0 {
		s.resources.AllocateComputing(target, compute)
	}
	turn := turnOf(state)
	s.states.Dispatch(action.StartResearch{ID: id, ComputeAllocated: compute, Turn: turn})
	s.log.Info("research started", "id", id, "compute", compute, "turn", turn)
	s.emit(eventbus.TopicResearchStarted, ResearchStarted{ID: id, Compute: compute, Turn: turn})
	return nil
}

func (s *ResearchSystem) checkStart(state *aggregate.State, id string, compute float64) error {
	if state == nil || state.Research == nil {
		return apperrors.New(apperrors.CodeUnknown, "state not initialized")
	}
	if _, ok := state.Research.Nodes[id]; !ok {
		return apperrors.WithMetadata(apperrors.CodeResearchUnknown, "unknown research", map[string]string{"ID": id})
	}
	if state.Research.IsActive(id) || state.Research.IsCompleted(id) {
		return apperrors.WithMetadata(apperrors.CodeResearchNotAvailable, "research not available", map[string]string{"ID": id})
	}
	if missing := state.Research.MissingPrerequisites(id); len(missing) > 0 {
		return apperrors.WithMetadata(apperrors.CodeResearchLocked, "research locked", map[string]string{
			"ID":      id,
			"Missing": strings.Join(missing, ", "),
		})
	}
	if compute < 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "compute must not be negative")
	}
	return nil
}

// CancelResearch stops an active project and releases its computing.
// Progress is kept for a later restart.
func (s *ResearchSystem) CancelResearch(id string) error {
	state := s.states.State()
	if state == nil || !state.Research.IsActive(id) {
		err := apperrors.WithMetadata(apperrors.CodeResearchNotAvailable, "research not active", map[string]string{"ID": id})
		s.fail("cancel", err, id, 0)
		return err
	}
	s.states.Dispatch(action.CancelResearch{ID: id})
	s.release(id)
	s.log.Info("research cancelled", "id", id)
	return nil
}

// CompleteResearch finishes a project immediately. The completion watcher
// handles the follow-up as for a project that reached its threshold.
func (s *ResearchSystem) CompleteResearch(id string) error {
	state := s.states.State()
	if state == nil || state.Research == nil {
		return apperrors.New(apperrors.CodeUnknown, "state not initialized")
	}
	if _, ok := state.Research.Nodes[id]; !ok {
		err := apperrors.WithMetadata(apperrors.CodeResearchUnknown, "unknown research", map[string]string{"ID": id})
		s.fail("complete", err, id, 0)
		return err
	}
	if state.Research.IsCompleted(id) {
		err := apperrors.WithMetadata(apperrors.CodeResearchNotAvailable, "research already completed", map[string]string{"ID": id})
		s.fail("complete", err, id, 0)
		return err
	}
	s.states.Dispatch(action.CompleteResearch{ID: id, Turn: turnOf(state)})
	return nil
}

// Available lists the projects that can be started now, in id order.
func (s *ResearchSystem) Available() []research.Node {
	state := s.states.State()
	if state == nil || state.Research == nil {
		return nil
	}
	ids := slices.Clone(state.Research.Unlocked)
	slices.Sort(ids)
	out := make([]research.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, state.Research.Nodes[id])
	}
	return out
}

// completed releases the project's computing, unlocks dependents, and
// announces the completion. Breakthroughs are announced on
// research:breakthrough instead of research:complete.
func (s *ResearchSystem) completed(id string) {
	s.release(id)

	state := s.states.State()
	node := state.Research.Nodes[id]
	unlocked := state.Research.Unlockable()
	if len(unlocked) > 0 {
		s.states.Dispatch(action.UnlockResearch{IDs: unlocked})
	}

	done := ResearchCompletion{
		ID:           id,
		Name:         node.Name,
		Turn:         node.CompletionTurn,
		Breakthrough: node.Breakthrough,
		Unlocked:     unlocked,
	}
	s.log.Info("research completed", "id", id, "breakthrough", node.Breakthrough, "unlocked", len(unlocked))
	if node.Breakthrough {
		s.emit(eventbus.TopicResearchBreakthrough, done)
	} else {
		s.emit(eventbus.TopicResearchComplete, done)
	}
	s.emit(eventbus.TopicResearchCompleted, done)
}

func (s *ResearchSystem) release(id string) {
	state := s.states.State()
	target := ResearchTarget(id)
	if amount := state.Resources.Computing.Allocated[target]; amount > 0 {
		s.states.Dispatch(action.DeallocateComputing{Target: target, Amount: amount, Turn: turnOf(state)})
	}
}

func (s *ResearchSystem) fail(op string, err error, id string, amount float64) {
	s.log.Info("research intent rejected", "operation", op, "id", id, "error", err)
	s.emit(eventbus.TopicResearchFailed, failure(s.states.State(), op, err, id, amount))
}

func (s *ResearchSystem) emit(topic eventbus.Topic, data any) {
	if s.bus != nil {
		s.bus.Emit(topic, data, researchSource)
	}
}
