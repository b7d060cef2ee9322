package systems

import (
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/singularity/internal/platform/errors"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/domain/resource"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

const resourceSource = "resources"

// BaseInfluenceGeneration is the per-turn influence gain before effect
// multipliers.
var BaseInfluenceGeneration = map[core.Faction]float64{
	core.FactionAcademic:   2,
	core.FactionIndustry:   2,
	core.FactionGovernment: 1,
	core.FactionPublic:     1,
	core.FactionOpenSource: 2,
}

// ComputingChange is the payload of computing:allocated and
// computing:deallocated.
type ComputingChange struct {
	Target    string
	Amount    float64
	Allocated float64
	Available float64
}

// Spent is the payload of resources:spent.
type Spent struct {
	Cost      core.Cost
	Reason    string
	Recurring bool
}

// ResourceSystem validates resource intents and keeps derived effects
// current.
type ResourceSystem struct {
	states StateStore
	bus    *eventbus.Bus
	log    logging.Logger

	mu      sync.Mutex
	effects core.Combined
	subs    map[eventbus.Topic]eventbus.ListenerID
}

// NewResourceSystem creates a resource coordinator.
func NewResourceSystem(states StateStore, bus *eventbus.Bus, opts ...Option) *ResourceSystem {
	cfg := newConfig(opts)
	return &ResourceSystem{
		states:  states,
		bus:     bus,
		log:     logging.Component(cfg.log, resourceSource),
		effects: core.NeutralEffects(),
	}
}

// Start recomputes effects whenever deployments or research change.
func (r *ResourceSystem) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs != nil || r.bus == nil {
		return
	}
	r.subs = make(map[eventbus.Topic]eventbus.ListenerID)
	for _, topic := range []eventbus.Topic{
		eventbus.TopicDeploymentActive,
		eventbus.TopicDeploymentRemoved,
		eventbus.TopicResearchCompleted,
	} {
		r.subs[topic] = r.bus.Subscribe(topic, func(eventbus.Event) error {
			r.RecomputeEffects()
			return nil
		}, resourceSource)
	}
}

// Stop removes the bus subscriptions.
func (r *ResourceSystem) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for topic, id := range r.subs {
		r.bus.Unsubscribe(topic, id)
	}
	r.subs = nil
}

// CheckCost returns the coded reason cost cannot be paid, or nil.
func (r *ResourceSystem) CheckCost(cost core.Cost) error {
	state := r.states.State()
	if state == nil {
		return apperrors.New(apperrors.CodeUnknown, "state not initialized")
	}
	return resource.CheckCost(state.Resources, cost)
}

// CanAfford reports whether every populated category of cost is covered.
func (r *ResourceSystem) CanAfford(cost core.Cost) bool {
	return r.CheckCost(cost) == nil
}

// AvailableComputing is the unallocated computing.
func (r *ResourceSystem) AvailableComputing() float64 {
	state := r.states.State()
	if state == nil || state.Resources == nil || state.Resources.Computing == nil {
		return 0
	}
	return state.Resources.Computing.Available()
}

// AllocateComputing assigns amount of the available computing to target.
func (r *ResourceSystem) AllocateComputing(target string, amount float64) bool {
	state := r.states.State()
	if err := r.checkAllocation(target, amount); err != nil {
		r.fail(eventbus.TopicComputingFailed, failure(state, "allocate", err, target, amount))
		return false
	}
	r.states.Dispatch(action.AllocateComputing{Target: target, Amount: amount, Turn: turnOf(state)})
	r.emit(eventbus.TopicComputingAllocated, r.computingChange(target, amount))
	r.emit(eventbus.TopicResourcesUpdated, r.states.State().Resources)
	return true
}

func (r *ResourceSystem) checkAllocation(target string, amount float64) error {
	if strings.TrimSpace(target) == "" {
		return apperrors.New(apperrors.CodeInvalidTarget, "allocation target is required")
	}
	if amount <= 0 {
		return apperrors.New(apperrors.CodeInvalidAmount, "allocation amount must be positive")
	}
	return r.CheckCost(core.Cost{Computing: amount})
}

// DeallocateComputing releases up to amount from target.
func (r *ResourceSystem) DeallocateComputing(target string, amount float64) bool {
	state := r.states.State()
	var err error
	switch {
	case amount <= 0:
		err = apperrors.New(apperrors.CodeInvalidAmount, "deallocation amount must be positive")
	case state == nil || !state.Resources.Complete() || state.Resources.Computing.Allocated[target] <= 0:
		err = apperrors.WithMetadata(apperrors.CodeNothingAllocated, "nothing allocated", map[string]string{"Target": target})
	}
	if err != nil {
		r.fail(eventbus.TopicComputingFailed, failure(state, "deallocate", err, target, amount))
		return false
	}
	r.states.Dispatch(action.DeallocateComputing{Target: target, Amount: amount, Turn: turnOf(state)})
	r.emit(eventbus.TopicComputingDeallocated, r.computingChange(target, amount))
	r.emit(eventbus.TopicResourcesUpdated, r.states.State().Resources)
	return true
}

// Spend pays cost. A recurring spend also raises funding expenses by the
// funding amount. Data in cost is revoked access, not consumption.
func (r *ResourceSystem) Spend(cost core.Cost, reason string, recurring bool) bool {
	state := r.states.State()
	if err := r.CheckCost(cost); err != nil {
		r.fail(eventbus.TopicSpendFailed, failure(state, "spend", err, reason, cost.Funding))
		return false
	}
	if cost.IsZero() {
		return true
	}
	r.states.Dispatch(action.SpendResources{Cost: cost, Reason: reason, Recurring: recurring, Turn: turnOf(state)})
	r.emit(eventbus.TopicResourcesSpent, Spent{Cost: cost, Reason: reason, Recurring: recurring})
	r.emit(eventbus.TopicResourcesUpdated, r.states.State().Resources)
	return true
}

// RecomputeEffects folds the effects of every active deployment from
// scratch, stores the result, and pushes computing efficiency into state.
func (r *ResourceSystem) RecomputeEffects() core.Combined {
	state := r.states.State()
	var bundles []core.Effects
	if state != nil && state.Deployments != nil {
		bundles = state.Deployments.ActiveEffects()
	}
	combined := core.FoldEffects(bundles)

	r.mu.Lock()
	r.effects = combined
	r.mu.Unlock()

	r.states.Dispatch(action.UpdateResource{
		Resource: core.ResourceComputing,
		Fields:   map[string]float64{"efficiency": combined.ComputingEfficiency},
	})
	r.log.Debug("effects recomputed",
		"deployments", len(bundles),
		"computing_efficiency", strconv.FormatFloat(combined.ComputingEfficiency, 'f', -1, 64),
	)
	r.emit(eventbus.TopicResourceEffectsUpdated, combined)
	return combined
}

// Effects returns the last folded effect bundle.
func (r *ResourceSystem) Effects() core.Combined {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.effects
}

// GenerationPayload builds the turn-start generation action: base influence
// per faction scaled by the influence multipliers plus flat bonuses.
func (r *ResourceSystem) GenerationPayload(state *aggregate.State) action.GenerateResources {
	effects := r.Effects()
	deltas := make(map[core.Faction]float64, len(core.Factions))
	for _, f := range core.Factions {
		mult, ok := effects.InfluenceMultipliers[f]
		if !ok {
			mult = 1
		}
		deltas[f] = BaseInfluenceGeneration[f]*mult + effects.InfluenceGeneration[f]
	}
	return action.GenerateResources{Turn: turnOf(state), Influence: deltas}
}

func (r *ResourceSystem) computingChange(target string, amount float64) ComputingChange {
	c := r.states.State().Resources.Computing
	return ComputingChange{
		Target:    target,
		Amount:    amount,
		Allocated: c.Allocated[target],
		Available: c.Available(),
	}
}

func (r *ResourceSystem) fail(topic eventbus.Topic, f Failure) {
	r.log.Info("resource intent rejected", "operation", f.Operation, "code", string(f.Code), "target", f.Target)
	r.emit(topic, f)
}

func (r *ResourceSystem) emit(topic eventbus.Topic, data any) {
	if r.bus != nil {
		r.bus.Emit(topic, data, resourceSource)
	}
}
