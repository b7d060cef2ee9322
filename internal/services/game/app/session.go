package app

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/singularity/internal/platform/id"
	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/platform/otel"
	"github.com/louisbranch/singularity/internal/services/game/content"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"github.com/louisbranch/singularity/internal/services/game/statemanager"
	"github.com/louisbranch/singularity/internal/services/game/storage"
	"github.com/louisbranch/singularity/internal/services/game/systems"
	"github.com/louisbranch/singularity/internal/services/game/turn"
)

// Config describes a session. Zero values fall back to the embedded
// catalog, the current year, an in-memory save store, and a discarding
// logger.
type Config struct {
	Catalog   *content.Catalog
	StartYear int
	StartDate int64
	Store     storage.SaveStore
	Logger    logging.Logger
	Clock     func() time.Time
	IDs       id.Generator
	// Settings, when set, replaces the default settings slice.
	Settings func(*aggregate.State)
}

// Session is one running game: the state, the bus, and the coordinators
// listening on it.
type Session struct {
	Catalog     content.Catalog
	Bus         *eventbus.Bus
	States      *statemanager.Manager
	Turns       *turn.System
	Resources   *systems.ResourceSystem
	Research    *systems.ResearchSystem
	Deployments *systems.DeploymentSystem
	Events      *systems.EventTrigger

	store   storage.SaveStore
	log     logging.Logger
	started bool
}

// NewSession builds a session from cfg. Start must be called before the
// first turn runs.
func NewSession(cfg Config) (*Session, error) {
	catalog := cfg.Catalog
	if catalog == nil {
		def, err := content.Default()
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		catalog = &def
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	store := cfg.Store
	if store == nil {
		store = storage.NewMemory()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = id.NewID
	}
	year := cfg.StartYear
	if year <= 0 {
		year = clock().Year()
	}

	initial := aggregate.NewInitialState(catalog.Options(year, cfg.StartDate))
	if cfg.Settings != nil {
		cfg.Settings(initial)
	}

	bus := eventbus.New(eventbus.WithLogger(log), eventbus.WithClock(clock))
	states := statemanager.New(initial, bus,
		statemanager.WithLogger(log),
		statemanager.WithStore(store),
		statemanager.WithClock(clock),
		statemanager.WithTracer(otel.Tracer("services/game/statemanager")),
	)
	sysOpts := []systems.Option{systems.WithLogger(log), systems.WithIDGenerator(ids)}
	resources := systems.NewResourceSystem(states, bus, sysOpts...)
	s := &Session{
		Catalog:     *catalog,
		Bus:         bus,
		States:      states,
		Resources:   resources,
		Research:    systems.NewResearchSystem(states, bus, resources, sysOpts...),
		Deployments: systems.NewDeploymentSystem(states, bus, sysOpts...),
		Events:      systems.NewEventTrigger(states, bus, catalog.Events, sysOpts...),
		Turns: turn.New(states, bus,
			turn.WithLogger(log),
			turn.WithClock(clock),
			turn.WithGenerationSource(resources),
			turn.WithTracer(otel.Tracer("services/game/turn")),
		),
		store: store,
		log:   logging.Component(log, "session"),
	}
	return s, nil
}

// Start subscribes every coordinator and opens the first turn.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	s.Resources.Start()
	s.Research.Start()
	s.Events.Start()
	s.Turns.Start()
	s.log.Info("session started", "turn", s.States.State().Meta.Turn)
}

// Stop unsubscribes every coordinator.
func (s *Session) Stop() {
	if !s.started {
		return
	}
	s.started = false
	s.Turns.Stop()
	s.Events.Stop()
	s.Research.Stop()
	s.Resources.Stop()
}

// Close stops the session and closes its save store.
func (s *Session) Close() error {
	s.Stop()
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close save store: %w", err)
	}
	return nil
}

// State returns the current state.
func (s *Session) State() *aggregate.State { return s.States.State() }

// Dispatch applies act to the state.
func (s *Session) Dispatch(act action.Action) { s.States.Dispatch(act) }

// EndTurn resolves the current turn and opens the next one.
func (s *Session) EndTurn(ctx context.Context) bool { return s.Turns.EndTurn(ctx) }

// Save writes the state to slot name. The cause of a failure is logged.
func (s *Session) Save(ctx context.Context, name string) error {
	if !s.States.SaveState(ctx, name) {
		return fmt.Errorf("save %q failed", name)
	}
	return nil
}

// Saves lists the save slots, newest first.
func (s *Session) Saves(ctx context.Context) ([]storage.SaveInfo, error) {
	return s.States.ListSaves(ctx)
}

// Load replaces the state with slot name.
func (s *Session) Load(ctx context.Context, name string) error {
	if !s.States.LoadState(ctx, name) {
		return fmt.Errorf("load %q failed", name)
	}
	return nil
}
