package turn

import (
	"math"
	"sync"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/meta"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

// Compression increments applied when research lands.
const (
	CompressionPerCompletion   = 0.05
	CompressionPerBreakthrough = 0.10
)

const timeSource = "time"

// Advance is the payload of time:advanced.
type Advance struct {
	Turn     int
	Days     int
	Previous meta.GameTime
	Current  meta.GameTime
}

// CompressionChange is the payload of time:compression:changed.
type CompressionChange struct {
	Previous  float64
	Factor    float64
	TimeScale float64
	Cause     eventbus.Topic
}

// TimeSystem owns calendar advancement and time compression.
type TimeSystem struct {
	states StateStore
	bus    *eventbus.Bus
	log    logging.Logger
	clock  func() time.Time

	mu   sync.Mutex
	subs map[eventbus.Topic]eventbus.ListenerID
}

// NewTimeSystem creates a time system. Call Start to attach it to the bus.
func NewTimeSystem(states StateStore, bus *eventbus.Bus, opts ...Option) *TimeSystem {
	cfg := newConfig(opts)
	return &TimeSystem{
		states: states,
		bus:    bus,
		log:    logging.Component(cfg.log, timeSource),
		clock:  cfg.clock,
	}
}

// Start subscribes to turn:ending and the research completion topics.
func (t *TimeSystem) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.subs != nil || t.bus == nil {
		return
	}
	t.subs = map[eventbus.Topic]eventbus.ListenerID{
		eventbus.TopicTurnEnding: t.bus.Subscribe(eventbus.TopicTurnEnding, func(eventbus.Event) error {
			t.AdvanceTime()
			return nil
		}, timeSource),
		eventbus.TopicResearchComplete: t.bus.Subscribe(eventbus.TopicResearchComplete, func(eventbus.Event) error {
			t.Compress(CompressionPerCompletion, eventbus.TopicResearchComplete)
			return nil
		}, timeSource),
		eventbus.TopicResearchBreakthrough: t.bus.Subscribe(eventbus.TopicResearchBreakthrough, func(eventbus.Event) error {
			t.Compress(CompressionPerBreakthrough, eventbus.TopicResearchBreakthrough)
			return nil
		}, timeSource),
	}
}

// Stop removes the time system's bus subscriptions.
func (t *TimeSystem) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for topic, id := range t.subs {
		t.bus.Unsubscribe(topic, id)
	}
	t.subs = nil
}

// AdvanceTime moves the calendar forward by one turn's worth of days,
// records the turn history entry, and emits time:advanced.
func (t *TimeSystem) AdvanceTime() meta.GameTime {
	state := t.states.State()
	if state == nil || state.Meta == nil {
		return meta.GameTime{}
	}
	prev := state.Meta.GameTime
	days := meta.DaysToAdvance(prev.TimeScale)
	next := meta.AdvanceCalendar(prev, days)

	t.states.Dispatch(action.UpdateGameTime{
		Year:       next.Year,
		Quarter:    next.Quarter,
		Month:      next.Month,
		Day:        next.Day,
		DaysPassed: next.DaysPassed,
	})
	t.states.Dispatch(action.AddTurnHistory{
		Turn:         state.Meta.Turn,
		Year:         next.Year,
		Quarter:      next.Quarter,
		Month:        next.Month,
		Day:          next.Day,
		DaysAdvanced: days,
		Timestamp:    t.clock().UnixMilli(),
	})

	t.log.Debug("time advanced", "turn", state.Meta.Turn, "days", days, "year", next.Year, "month", next.Month)
	if t.bus != nil {
		t.bus.Emit(eventbus.TopicTimeAdvanced, Advance{
			Turn:     state.Meta.Turn,
			Days:     days,
			Previous: prev,
			Current:  next,
		}, timeSource)
	}
	return next
}

// Compress raises the compression factor by delta, capped at
// meta.MaxCompressionFactor. It reports whether the factor changed.
func (t *TimeSystem) Compress(delta float64, cause eventbus.Topic) bool {
	if delta <= 0 || math.IsNaN(delta) {
		return false
	}
	state := t.states.State()
	if state == nil || state.Meta == nil {
		return false
	}
	prev := state.Meta.GameTime.CompressionFactor
	return t.setCompression(prev, meta.ClampCompression(prev+delta), false, cause)
}

// ResetCompression returns time to its base pace.
func (t *TimeSystem) ResetCompression() bool {
	state := t.states.State()
	if state == nil || state.Meta == nil {
		return false
	}
	return t.setCompression(state.Meta.GameTime.CompressionFactor, 1, true, "")
}

func (t *TimeSystem) setCompression(prev, factor float64, reset bool, cause eventbus.Topic) bool {
	before := t.states.State()
	t.states.Dispatch(action.UpdateTimeCompression{Factor: factor, Reset: reset})
	after := t.states.State()
	if after == before {
		return false
	}
	gt := after.Meta.GameTime
	t.log.Info("time compression changed", "previous", prev, "factor", gt.CompressionFactor, "time_scale", gt.TimeScale)
	if t.bus != nil {
		t.bus.Emit(eventbus.TopicTimeCompressionChanged, CompressionChange{
			Previous:  prev,
			Factor:    gt.CompressionFactor,
			TimeScale: gt.TimeScale,
			Cause:     cause,
		}, timeSource)
	}
	return true
}
