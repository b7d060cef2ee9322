package turn

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
	platformotel "github.com/louisbranch/singularity/internal/platform/otel"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const turnSource = "turn"

// Notice is the payload of the turn:* topics and events:check.
type Notice struct {
	Turn int
}

// PhaseNotice is the payload of the phase:* topics.
type PhaseNotice struct {
	Turn  int
	Phase core.Phase
}

// System sequences turns.
type System struct {
	states StateStore
	bus    *eventbus.Bus
	time   *TimeSystem
	gen    GenerationSource
	log    logging.Logger
	clock  func() time.Time
	tracer trace.Tracer

	mu      sync.Mutex
	phase   core.Phase
	ending  bool
	started bool
	endSub  eventbus.ListenerID
}

// New creates a turn system and the time system it composes.
func New(states StateStore, bus *eventbus.Bus, opts ...Option) *System {
	cfg := newConfig(opts)
	return &System{
		states: states,
		bus:    bus,
		time:   NewTimeSystem(states, bus, opts...),
		gen:    cfg.gen,
		log:    logging.Component(cfg.log, turnSource),
		clock:  cfg.clock,
		tracer: cfg.tracer,
		phase:  core.PhaseStart,
	}
}

// Time returns the composed time system.
func (s *System) Time() *TimeSystem { return s.time }

// Phase returns the phase the cycle is in. During the action window this
// is ACTION while meta.phase still reads START.
func (s *System) Phase() core.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Start attaches the cycle to the bus and opens the first turn.
func (s *System) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	if s.bus != nil {
		s.endSub = s.bus.Subscribe(eventbus.TopicTurnEnd, func(eventbus.Event) error {
			s.EndTurn(context.Background())
			return nil
		}, turnSource)
	}
	s.mu.Unlock()

	s.time.Start()
	s.StartTurn()
}

// Stop detaches the cycle from the bus.
func (s *System) Stop() {
	s.mu.Lock()
	if s.started && s.bus != nil {
		s.bus.Unsubscribe(eventbus.TopicTurnEnd, s.endSub)
	}
	s.started = false
	s.mu.Unlock()
	s.time.Stop()
}

// StartTurn runs the START phase and leaves the cycle in ACTION.
func (s *System) StartTurn() {
	turn := s.turn()
	s.setPhase(turn, core.PhaseStart)
	s.emit(eventbus.TopicTurnStart, Notice{Turn: turn})

	payload := action.GenerateResources{}
	if s.gen != nil {
		payload = s.gen.GenerationPayload(s.states.State())
	}
	payload.Turn = turn
	s.states.Dispatch(payload)

	s.emit(eventbus.TopicEventsCheck, Notice{Turn: turn})

	s.mu.Lock()
	s.phase = core.PhaseAction
	s.mu.Unlock()
	s.emit(eventbus.TopicPhaseAction, PhaseNotice{Turn: turn, Phase: core.PhaseAction})
	s.log.Debug("turn started", "turn", turn)
}

// EndTurn resolves the current turn and starts the next one. It reports
// false when the call was ignored: a turn end is already running or the
// cycle is not in ACTION.
func (s *System) EndTurn(ctx context.Context) bool {
	s.mu.Lock()
	if s.ending {
		s.mu.Unlock()
		s.log.Warn("turn end ignored: already ending")
		return false
	}
	if s.phase != core.PhaseAction {
		phase := s.phase
		s.mu.Unlock()
		s.log.Warn("turn end ignored: not in action phase", "phase", string(phase))
		return false
	}
	s.ending = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.ending = false
		s.mu.Unlock()
	}()

	turn := s.turn()
	ctx, span := s.tracer.Start(ctx, "turn.end", trace.WithAttributes(attribute.Int("game.turn", turn)))
	defer span.End()

	s.emit(eventbus.TopicTurnEnding, Notice{Turn: turn})

	s.setPhase(turn, core.PhaseResolution)
	s.emit(eventbus.TopicPhaseResolution, PhaseNotice{Turn: turn, Phase: core.PhaseResolution})
	s.states.Dispatch(action.UpdateResearchProgress{Turn: turn})
	s.states.Dispatch(action.ApplyDeploymentEffects{Turn: turn})

	s.setPhase(turn, core.PhaseEnd)
	now := s.clock().UnixMilli()
	s.states.Dispatch(action.UpdateCompetitors{Turn: turn})
	s.states.Dispatch(action.SaveTurnHistory{Turn: turn, Summary: Summarize(s.states.State()), Timestamp: now})

	if state := s.states.State(); state != nil && state.Settings != nil && state.Settings.AutoSave {
		slot := state.Settings.AutoSaveSlot
		if !s.states.SaveState(ctx, slot) {
			s.log.Warn("autosave failed", "turn", turn, "slot", slot)
		}
	}

	s.emit(eventbus.TopicTurnEnded, Notice{Turn: turn})
	s.states.Dispatch(action.AdvanceTurn{Timestamp: now})
	s.log.Info("turn ended", "turn", turn)

	s.StartTurn()
	span.SetAttributes(attribute.Int("game.next_turn", s.turn()))
	return true
}

func (s *System) setPhase(turn int, phase core.Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
	s.states.Dispatch(action.SetPhase{Phase: phase})
	s.emit(eventbus.TopicPhaseChanged, PhaseNotice{Turn: turn, Phase: phase})
}

func (s *System) turn() int {
	state := s.states.State()
	if state == nil || state.Meta == nil {
		return 0
	}
	return state.Meta.Turn
}

func (s *System) emit(topic eventbus.Topic, data any) {
	if s.bus != nil {
		s.bus.Emit(topic, data, turnSource)
	}
}

// Summarize captures the end-of-turn resource snapshot.
func Summarize(state *aggregate.State) core.TurnSummary {
	var summary core.TurnSummary
	if state == nil {
		return summary
	}
	if res := state.Resources; res != nil {
		if res.Funding != nil {
			summary.Funding = res.Funding.Current
		}
		if res.Computing != nil {
			summary.Computing = res.Computing.Total
			summary.ComputingAllocated = res.Computing.AllocatedTotal()
		}
	}
	if state.Research != nil {
		summary.ActiveResearch = len(state.Research.Active)
		summary.CompletedResearch = len(state.Research.Completed)
	}
	if state.Deployments != nil {
		summary.ActiveDeployments = len(state.Deployments.Active)
	}
	if state.Events != nil {
		summary.PendingEvents = len(state.Events.Current)
	}
	return summary
}

func newConfig(opts []Option) config {
	cfg := config{
		log:    logging.Nop(),
		clock:  time.Now,
		tracer: platformotel.Tracer("services/game/turn"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
