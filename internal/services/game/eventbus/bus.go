// Package eventbus is the synchronous publish/subscribe hub that decouples
// the game systems.
//
// Emit runs every handler registered for a topic on the caller's stack, in
// registration order, against a snapshot of the registrations taken when
// the emission starts. Handlers may emit or (un)subscribe re-entrantly. A
// handler that returns an error or panics is counted as a failure and the
// remaining handlers still run, unless more than half of the snapshot has
// failed, in which case the rest of that pass is skipped. Emit never
// panics and never returns an error.
package eventbus

import (
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
)

const (
	// DefaultMaxListeners is the per-topic listener count above which
	// HealthStatus warns about a possible leak.
	DefaultMaxListeners = 10
	// DefaultHistoryLimit bounds the emission history.
	DefaultHistoryLimit = 1000
)

// Event is what a handler receives.
type Event struct {
	Topic      Topic
	Data       any
	Source     string
	Timestamp  time.Time
	ChainDepth int
	Parent     Topic
}

// Handler reacts to an event. A returned error counts as a failure.
type Handler func(Event) error

// ListenerID identifies one registration for Unsubscribe.
type ListenerID uint64

type listener struct {
	id     ListenerID
	fn     Handler
	source string
}

// Record is one emission in the bus history.
type Record struct {
	Topic      Topic     `json:"topic"`
	Source     string    `json:"source,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	ChainDepth int       `json:"chainDepth"`
	Parent     Topic     `json:"parent,omitempty"`
	Listeners  int       `json:"listeners"`
	Failures   int       `json:"failures"`
	Aborted    bool      `json:"aborted,omitempty"`
}

// Bus is the event bus. The zero value is not usable; call New.
type Bus struct {
	mu           sync.Mutex
	listeners    map[Topic][]listener
	nextID       ListenerID
	chain        []Topic
	history      []*Record
	log          logging.Logger
	clock        func() time.Time
	maxListeners int
	historyLimit int
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for handler failures and diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock sets the clock used to stamp events.
func WithClock(clock func() time.Time) Option {
	return func(b *Bus) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// WithMaxListeners sets the per-topic leak warning threshold.
func WithMaxListeners(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.maxListeners = n
		}
	}
}

// WithHistoryLimit sets how many emissions History keeps.
func WithHistoryLimit(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.historyLimit = n
		}
	}
}

// New returns an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		listeners:    make(map[Topic][]listener),
		log:          logging.Nop(),
		clock:        time.Now,
		maxListeners: DefaultMaxListeners,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for topic. source tags the registration in logs.
func (b *Bus) Subscribe(topic Topic, fn Handler, source string) ListenerID {
	if fn == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[topic] = append(b.listeners[topic], listener{id: id, fn: fn, source: source})
	return id
}

// Unsubscribe removes the registration id from topic. It reports whether a
// registration was removed.
func (b *Bus) Unsubscribe(topic Topic, id ListenerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	current := b.listeners[topic]
	idx := slices.IndexFunc(current, func(l listener) bool { return l.id == id })
	if idx < 0 {
		return false
	}
	remaining := slices.Delete(current, idx, idx+1)
	if len(remaining) == 0 {
		delete(b.listeners, topic)
	} else {
		b.listeners[topic] = remaining
	}
	return true
}

// ListenerCount returns the number of registrations for topic.
func (b *Bus) ListenerCount(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[topic])
}

// Emit delivers data to every handler registered for topic.
func (b *Bus) Emit(topic Topic, data any, source string) {
	b.mu.Lock()
	snapshot := slices.Clone(b.listeners[topic])
	evt := Event{
		Topic:      topic,
		Data:       data,
		Source:     source,
		Timestamp:  b.clock(),
		ChainDepth: len(b.chain),
	}
	if n := len(b.chain); n > 0 {
		evt.Parent = b.chain[n-1]
	}
	b.chain = append(b.chain, topic)
	rec := &Record{
		Topic:      topic,
		Source:     source,
		Timestamp:  evt.Timestamp,
		ChainDepth: evt.ChainDepth,
		Parent:     evt.Parent,
		Listeners:  len(snapshot),
	}
	b.history = append(b.history, rec)
	if over := len(b.history) - b.historyLimit; over > 0 {
		b.history = slices.Delete(b.history, 0, over)
	}
	b.mu.Unlock()

	defer b.popChain()

	failures := 0
	for i, l := range snapshot {
		if err := b.invoke(l, evt); err != nil {
			failures++
			b.log.Error("event handler failed",
				"topic", string(topic),
				"listener_source", l.source,
				"emit_source", source,
				"chain_depth", evt.ChainDepth,
				"error", err,
			)
			if failures*2 > len(snapshot) && i < len(snapshot)-1 {
				b.log.Warn("event handler failure threshold exceeded, skipping remaining handlers",
					"topic", string(topic),
					"failures", failures,
					"listeners", len(snapshot),
					"skipped", len(snapshot)-i-1,
				)
				b.finish(rec, failures, true)
				return
			}
		}
	}
	b.finish(rec, failures, false)
}

func (b *Bus) finish(rec *Record, failures int, aborted bool) {
	b.mu.Lock()
	rec.Failures = failures
	rec.Aborted = aborted
	b.mu.Unlock()
}

func (b *Bus) popChain() {
	b.mu.Lock()
	if n := len(b.chain); n > 0 {
		b.chain = b.chain[:n-1]
	}
	b.mu.Unlock()
}

// invoke runs one handler, converting a panic into an error.
func (b *Bus) invoke(l listener, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
			b.log.Debug("event handler panic stack", "topic", string(evt.Topic), "stack", string(debug.Stack()))
		}
	}()
	return l.fn(evt)
}

// History returns the most recent emissions, oldest first.
func (b *Bus) History() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.history))
	for i, rec := range b.history {
		out[i] = *rec
	}
	return out
}

// ChainDepth is the number of emissions currently in flight.
func (b *Bus) ChainDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chain)
}
