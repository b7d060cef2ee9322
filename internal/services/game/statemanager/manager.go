// Package statemanager owns the single reference to the current game state.
//
// Dispatch runs an action through the root reducer and, when the reducer
// returns a different root, swaps the reference, notifies subscribers in
// subscription order, and then emits stateChanged on the bus. Saves are
// compressed snapshots written to a storage.SaveStore.
package statemanager

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
	platformotel "github.com/louisbranch/singularity/internal/platform/otel"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"github.com/louisbranch/singularity/internal/services/game/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const source = "statemanager"

// Listener observes a committed state change.
type Listener func(prev, next *aggregate.State, act action.Action)

// Reducer computes the next root state.
type Reducer func(*aggregate.State, action.Action) *aggregate.State

// Change is the payload of stateChanged.
type Change struct {
	Prev   *aggregate.State
	Next   *aggregate.State
	Action action.Action
}

// Loaded is the payload of stateLoaded.
type Loaded struct {
	Name   string
	State  *aggregate.State
	Record RecordMeta
}

type subscriber struct {
	id uint64
	fn Listener
}

// Manager holds the current state and serializes writes to it.
type Manager struct {
	bus     *eventbus.Bus
	log     logging.Logger
	store   storage.SaveStore
	clock   func() time.Time
	reducer Reducer
	tracer  trace.Tracer

	mu     sync.Mutex
	state  *aggregate.State
	subs   []subscriber
	nextID uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithStore sets the save store used by SaveState and LoadState.
func WithStore(s storage.SaveStore) Option {
	return func(m *Manager) { m.store = s }
}

// WithClock overrides the clock used for save timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithReducer replaces the root reducer.
func WithReducer(r Reducer) Option {
	return func(m *Manager) {
		if r != nil {
			m.reducer = r
		}
	}
}

// WithTracer overrides the tracer used for persistence spans.
func WithTracer(t trace.Tracer) Option {
	return func(m *Manager) {
		if t != nil {
			m.tracer = t
		}
	}
}

// New creates a manager holding initial. bus may be nil, in which case no
// bus events are emitted.
func New(initial *aggregate.State, bus *eventbus.Bus, opts ...Option) *Manager {
	m := &Manager{
		bus:     bus,
		log:     logging.Nop(),
		clock:   time.Now,
		reducer: aggregate.Reduce,
		tracer:  platformotel.Tracer("services/game/statemanager"),
		state:   initial,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = logging.Component(m.log, source)
	return m
}

// State returns the current root. The returned value is never modified.
func (m *Manager) State() *aggregate.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies act. Reducer no-ops notify nobody.
func (m *Manager) Dispatch(act action.Action) {
	if act == nil {
		return
	}
	prev, next, subs, changed := m.commit(act)
	if !changed {
		return
	}
	for _, sub := range subs {
		m.notify(sub, prev, next, act)
	}
	if m.bus != nil {
		m.bus.Emit(eventbus.TopicStateChanged, Change{Prev: prev, Next: next, Action: act}, source)
	}
}

// commit reduces act under the lock and swaps in the result. A panicking
// reducer is logged and treated as a no-op.
func (m *Manager) commit(act action.Action) (prev, next *aggregate.State, subs []subscriber, changed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev = m.state
	next = m.reduce(prev, act)
	if next == prev || next == nil {
		return prev, prev, nil, false
	}
	m.state = next
	subs = make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	return prev, next, subs, true
}

func (m *Manager) reduce(state *aggregate.State, act action.Action) (next *aggregate.State) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("reducer panicked",
				"action", string(act.Type()),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			next = state
		}
	}()
	return m.reducer(state, act)
}

func (m *Manager) notify(sub subscriber, prev, next *aggregate.State, act action.Action) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("state subscriber panicked",
				"subscriber", sub.id,
				"action", string(act.Type()),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	sub.fn(prev, next, act)
}

// Subscribe registers fn for every committed change and returns a function
// that removes it.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.subs {
				if sub.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// SubscribeToSlice forwards to fn only when selector's value differs
// between the previous and next state.
func (m *Manager) SubscribeToSlice(selector aggregate.Selector, fn Listener) (unsubscribe func()) {
	if selector == nil || fn == nil {
		return func() {}
	}
	return m.Subscribe(func(prev, next *aggregate.State, act action.Action) {
		if selector(prev) != selector(next) {
			fn(prev, next, act)
		}
	})
}

// SaveState writes the current state to the named slot. It reports false,
// after logging, when no store is configured or the write fails.
func (m *Manager) SaveState(ctx context.Context, name string) bool {
	ctx, span := m.tracer.Start(ctx, "statemanager.save", trace.WithAttributes(attribute.String("save.name", name)))
	defer span.End()

	if err := m.save(ctx, name); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		m.log.Error("save failed", "name", name, "error", err)
		return false
	}
	return true
}

func (m *Manager) save(ctx context.Context, name string) error {
	if m.store == nil {
		return fmt.Errorf("save store is not configured")
	}
	name, err := storage.NormalizeName(name)
	if err != nil {
		return err
	}
	now := m.clock().UTC()
	rec := NewRecord(m.State(), now.UnixMilli())
	data, err := EncodeRecord(rec)
	if err != nil {
		return err
	}
	info := storage.SaveInfo{
		Name:    name,
		Version: rec.Version,
		Turn:    rec.Meta.Turn,
		Year:    rec.Meta.Year,
		Quarter: rec.Meta.Quarter,
		Month:   rec.Meta.Month,
		Day:     rec.Meta.Day,
		SavedAt: now,
		Size:    len(data),
	}
	if err := m.store.PutSave(ctx, info, data); err != nil {
		return fmt.Errorf("put save: %w", err)
	}
	m.log.Info("state saved", "name", name, "turn", rec.Meta.Turn, "bytes", len(data))
	m.Dispatch(action.MarkSaved{Timestamp: rec.Timestamp})
	return nil
}

// LoadState replaces the current state with the named slot. Subscribers are
// not notified; stateLoaded is emitted instead. On failure the current state
// is kept and false is returned.
func (m *Manager) LoadState(ctx context.Context, name string) bool {
	ctx, span := m.tracer.Start(ctx, "statemanager.load", trace.WithAttributes(attribute.String("save.name", name)))
	defer span.End()

	rec, err := m.load(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		m.log.Error("load failed", "name", name, "error", err)
		return false
	}

	m.mu.Lock()
	m.state = rec.GameState
	m.mu.Unlock()

	m.log.Info("state loaded", "name", name, "turn", rec.Meta.Turn, "version", rec.Version)
	if m.bus != nil {
		m.bus.Emit(eventbus.TopicStateLoaded, Loaded{Name: name, State: rec.GameState, Record: rec.Meta}, source)
	}
	return true
}

func (m *Manager) load(ctx context.Context, name string) (Record, error) {
	if m.store == nil {
		return Record{}, fmt.Errorf("save store is not configured")
	}
	name, err := storage.NormalizeName(name)
	if err != nil {
		return Record{}, err
	}
	data, err := m.store.GetSave(ctx, name)
	if err != nil {
		return Record{}, fmt.Errorf("get save: %w", err)
	}
	return DecodeRecord(data)
}

// ListSaves lists the configured store's slots.
func (m *Manager) ListSaves(ctx context.Context) ([]storage.SaveInfo, error) {
	if m.store == nil {
		return nil, fmt.Errorf("save store is not configured")
	}
	return m.store.ListSaves(ctx)
}
