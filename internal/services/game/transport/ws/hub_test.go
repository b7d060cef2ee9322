package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
	"github.com/louisbranch/singularity/internal/services/game/statemanager"
)

type harness struct {
	bus    *eventbus.Bus
	states *statemanager.Manager
	hub    *Hub
	url    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bus := eventbus.New()
	states := statemanager.New(aggregate.NewInitialState(aggregate.Options{}), bus)
	hub := NewHub(states, bus)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-stopped
	})
	waitFor(t, func() bool { return bus.ListenerCount(eventbus.TopicStateChanged) == 1 })
	return &harness{
		bus:    bus,
		states: states,
		hub:    hub,
		url:    "ws" + strings.TrimPrefix(srv.URL, "http"),
	}
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) aggregate.State {
	t.Helper()
	msg := readMessage(t, conn)
	if msg.Type != TypeState {
		t.Fatalf("message type = %q, want %q", msg.Type, TypeState)
	}
	var state aggregate.State
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return state
}

func TestConnectReceivesSnapshot(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	state := readState(t, conn)
	if state.Meta == nil || state.Meta.Turn != 1 {
		t.Fatalf("snapshot meta = %+v, want turn 1", state.Meta)
	}
	waitFor(t, func() bool { return h.hub.ClientCount() == 1 })
}

func TestActionFrameIsDispatched(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)
	readState(t, conn)

	frame := `{"type":"action","payload":{"type":"ADVANCE_TURN","payload":{"timestamp":7}}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
	state := readState(t, conn)
	if state.Meta.Turn != 2 {
		t.Fatalf("turn = %d, want 2", state.Meta.Turn)
	}
	if got := h.states.State().Meta.Turn; got != 2 {
		t.Fatalf("session turn = %d, want 2", got)
	}
}

func TestTurnEndFrameEmitsTopic(t *testing.T) {
	h := newHarness(t)
	ended := make(chan struct{}, 1)
	h.bus.Subscribe(eventbus.TopicTurnEnd, func(eventbus.Event) error {
		ended <- struct{}{}
		return nil
	}, "test")
	conn := h.dial(t)
	readState(t, conn)

	if err := conn.WriteJSON(Message{Type: TypeTurnEnd}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-ended:
	case <-time.After(2 * time.Second):
		t.Fatal("turn:end was not emitted")
	}
}

func TestRejectedFramesReportErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{name: "unknown message", frame: `{"type":"chat"}`},
		{name: "bad envelope", frame: `{"type":"action","payload":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			conn := h.dial(t)
			readState(t, conn)

			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.frame)); err != nil {
				t.Fatalf("write: %v", err)
			}
			msg := readMessage(t, conn)
			if msg.Type != TypeError {
				t.Fatalf("message type = %q, want %q", msg.Type, TypeError)
			}
			if got := h.states.State().Meta.Turn; got != 1 {
				t.Fatalf("turn = %d, want 1", got)
			}
		})
	}
}

func TestUnknownActionIsIgnored(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)
	readState(t, conn)
	before := h.states.State()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"action","payload":{"type":"NOPE"}}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Frames are applied in order, so the first reply belongs to the chat frame.
	msg := readMessage(t, conn)
	if msg.Type != TypeError {
		t.Fatalf("message type = %q, want %q", msg.Type, TypeError)
	}
	var payload ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if !strings.Contains(payload.Message, "chat") {
		t.Fatalf("error = %q, want the unsupported chat frame", payload.Message)
	}
	if h.states.State() != before {
		t.Fatal("expected unknown action to leave state untouched")
	}
}

func TestStateLoadedBroadcasts(t *testing.T) {
	h := newHarness(t)
	first := h.dial(t)
	second := h.dial(t)
	readState(t, first)
	readState(t, second)

	h.bus.Emit(eventbus.TopicStateLoaded, nil, "test")

	readState(t, first)
	readState(t, second)
}
