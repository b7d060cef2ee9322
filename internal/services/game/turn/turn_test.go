package turn

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/domain/core"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"github.com/louisbranch/singularity/internal/services/game/statemanager"
	"github.com/louisbranch/singularity/internal/services/game/storage"
)

var testNow = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	bus    *eventbus.Bus
	states *statemanager.Manager
	store  *storage.Memory
	system *System
	log    *logging.Recorder
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	bus := eventbus.New(eventbus.WithClock(clock))
	store := storage.NewMemory()
	states := statemanager.New(aggregate.NewInitialState(aggregate.Options{}), bus,
		statemanager.WithStore(store),
		statemanager.WithClock(clock),
	)
	rec := logging.NewRecorder()
	opts = append([]Option{WithClock(clock), WithLogger(rec)}, opts...)
	return &fixture{
		bus:    bus,
		states: states,
		store:  store,
		system: New(states, bus, opts...),
		log:    rec,
	}
}

func topicsSince(bus *eventbus.Bus, from int) []eventbus.Topic {
	history := bus.History()
	var topics []eventbus.Topic
	for _, rec := range history[from:] {
		if rec.Topic == eventbus.TopicStateChanged {
			continue
		}
		topics = append(topics, rec.Topic)
	}
	return topics
}

func equalTopics(a, b []eventbus.Topic) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStartEntersActionWindow(t *testing.T) {
	f := newFixture(t)
	f.system.Start()

	if got := f.system.Phase(); got != core.PhaseAction {
		t.Fatalf("system phase = %s, want %s", got, core.PhaseAction)
	}
	state := f.states.State()
	if state.Meta.Phase != core.PhaseStart {
		t.Fatalf("meta phase = %s, want %s", state.Meta.Phase, core.PhaseStart)
	}
	if state.Resources.Funding.Current != 1020 {
		t.Fatalf("funding = %v, want 1020", state.Resources.Funding.Current)
	}
	if state.Resources.Computing.Total != 55 {
		t.Fatalf("computing = %v, want 55", state.Resources.Computing.Total)
	}
	want := []eventbus.Topic{
		eventbus.TopicPhaseChanged,
		eventbus.TopicTurnStart,
		eventbus.TopicEventsCheck,
		eventbus.TopicPhaseAction,
	}
	if got := topicsSince(f.bus, 0); !equalTopics(got, want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
}

func TestEndTurnAdvancesExactlyOneTurn(t *testing.T) {
	f := newFixture(t)
	f.system.Start()
	before := f.states.State().Meta
	scale := before.GameTime.TimeScale

	if !f.system.EndTurn(context.Background()) {
		t.Fatal("expected turn end to run")
	}

	after := f.states.State().Meta
	if after.Turn != before.Turn+1 {
		t.Fatalf("turn = %d, want %d", after.Turn, before.Turn+1)
	}
	if after.Phase != core.PhaseStart {
		t.Fatalf("meta phase = %s, want %s", after.Phase, core.PhaseStart)
	}
	if got, want := after.GameTime.DaysPassed-before.GameTime.DaysPassed, int(scale+0.5); got != want {
		t.Fatalf("days passed delta = %d, want %d", got, want)
	}
	if after.GameTime.Month != 4 || after.GameTime.Day != 1 || after.GameTime.Quarter != 2 {
		t.Fatalf("calendar = %+v, want April 1 in Q2", after.GameTime)
	}
	if f.system.Phase() != core.PhaseAction {
		t.Fatalf("system phase = %s, want %s", f.system.Phase(), core.PhaseAction)
	}
	if after.LastTurnAt != testNow.UnixMilli() {
		t.Fatalf("lastTurnAt = %d, want %d", after.LastTurnAt, testNow.UnixMilli())
	}
}

func TestEndTurnSequence(t *testing.T) {
	f := newFixture(t)
	f.system.Start()
	from := len(f.bus.History())

	f.system.EndTurn(context.Background())

	want := []eventbus.Topic{
		eventbus.TopicTurnEnding,
		eventbus.TopicTimeAdvanced,
		eventbus.TopicPhaseChanged,
		eventbus.TopicPhaseResolution,
		eventbus.TopicPhaseChanged,
		eventbus.TopicTurnEnded,
		eventbus.TopicPhaseChanged,
		eventbus.TopicTurnStart,
		eventbus.TopicEventsCheck,
		eventbus.TopicPhaseAction,
	}
	if got := topicsSince(f.bus, from); !equalTopics(got, want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
}

func TestEndTurnRecordsHistoryAndAutosaves(t *testing.T) {
	f := newFixture(t)
	f.system.Start()
	f.system.EndTurn(context.Background())

	meta := f.states.State().Meta
	if len(meta.TurnHistory) != 1 {
		t.Fatalf("history = %d entries, want 1", len(meta.TurnHistory))
	}
	entry := meta.TurnHistory[0]
	if entry.Turn != 1 || entry.DaysAdvanced != 90 || entry.Month != 4 {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Summary == nil || entry.Summary.Funding != 1020 {
		t.Fatalf("summary = %+v", entry.Summary)
	}

	data, err := f.store.GetSave(context.Background(), "autosave")
	if err != nil {
		t.Fatalf("autosave slot: %v", err)
	}
	rec, err := statemanager.DecodeRecord(data)
	if err != nil {
		t.Fatalf("decode autosave: %v", err)
	}
	if rec.Meta.Turn != 1 {
		t.Fatalf("autosave turn = %d, want 1", rec.Meta.Turn)
	}
	if meta.LastSaved != testNow.UnixMilli() {
		t.Fatalf("lastSaved = %d, want %d", meta.LastSaved, testNow.UnixMilli())
	}
}

func TestEndTurnSkipsSaveWhenAutosaveDisabled(t *testing.T) {
	f := newFixture(t)
	off := false
	f.states.Dispatch(action.UpdateSettings{AutoSave: &off})
	f.system.Start()
	f.system.EndTurn(context.Background())

	infos, err := f.store.ListSaves(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("saves = %+v, want none", infos)
	}
}

func TestTurnEndTopicTriggersEndTurn(t *testing.T) {
	f := newFixture(t)
	f.system.Start()
	f.bus.Emit(eventbus.TopicTurnEnd, nil, "ui")
	f.bus.Emit(eventbus.TopicTurnEnd, nil, "ui")
	if got := f.states.State().Meta.Turn; got != 3 {
		t.Fatalf("turn = %d, want 3", got)
	}
	f.system.Stop()
	f.bus.Emit(eventbus.TopicTurnEnd, nil, "ui")
	if got := f.states.State().Meta.Turn; got != 3 {
		t.Fatalf("turn after stop = %d, want 3", got)
	}
}

func TestReentrantEndTurnIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.bus.Subscribe(eventbus.TopicTurnEnding, func(eventbus.Event) error {
		f.bus.Emit(eventbus.TopicTurnEnd, nil, "nested")
		return nil
	}, "test")
	f.system.Start()
	f.system.EndTurn(context.Background())

	if got := f.states.State().Meta.Turn; got != 2 {
		t.Fatalf("turn = %d, want 2", got)
	}
	if n := len(f.log.Entries("warn")); n != 1 {
		t.Fatalf("warn logs = %d, want 1", n)
	}
}

func TestEndTurnOutsideActionIsIgnored(t *testing.T) {
	f := newFixture(t)
	if f.system.EndTurn(context.Background()) {
		t.Fatal("expected end turn before start to be ignored")
	}
	if got := f.states.State().Meta.Turn; got != 1 {
		t.Fatalf("turn = %d, want 1", got)
	}
}

type stubGeneration struct {
	calls int
}

func (s *stubGeneration) GenerationPayload(*aggregate.State) action.GenerateResources {
	s.calls++
	return action.GenerateResources{Influence: map[core.Faction]float64{core.FactionAcademic: 3}}
}

func TestStartTurnUsesGenerationSource(t *testing.T) {
	gen := &stubGeneration{}
	f := newFixture(t, WithGenerationSource(gen))
	f.system.Start()

	if gen.calls != 1 {
		t.Fatalf("generation calls = %d, want 1", gen.calls)
	}
	if got := f.states.State().Resources.Influence.Get(core.FactionAcademic); got != 13 {
		t.Fatalf("academic influence = %v, want 13", got)
	}
}

func TestSummarize(t *testing.T) {
	state := aggregate.NewInitialState(aggregate.Options{})
	state = aggregate.Reduce(state, action.AllocateComputing{Target: "research", Amount: 12})
	summary := Summarize(state)
	if summary.Funding != 1000 || summary.Computing != 50 || summary.ComputingAllocated != 12 {
		t.Fatalf("summary = %+v", summary)
	}
	if got := Summarize(nil); got != (core.TurnSummary{}) {
		t.Fatalf("nil summary = %+v", got)
	}
}
