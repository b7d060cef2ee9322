package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/domain/action"
	"github.com/louisbranch/singularity/internal/services/game/domain/aggregate"
	"github.com/louisbranch/singularity/internal/services/game/eventbus"
)

const hubSource = "ws"

// Message types exchanged over the socket.
const (
	TypeState   = "state"
	TypeAction  = "action"
	TypeTurnEnd = "turn:end"
	TypeError   = "error"
)

// Message is the JSON envelope for every frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload is sent to a single client whose frame was rejected.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Session is the part of the game session the hub drives.
type Session interface {
	State() *aggregate.State
	Dispatch(act action.Action)
}

type inbound struct {
	client *client
	msg    Message
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithCheckOrigin replaces the upgrade origin check. The default accepts any
// origin.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(h *Hub) {
		if fn != nil {
			h.upgrader.CheckOrigin = fn
		}
	}
}

// Hub keeps the set of connected clients and fans state snapshots out to
// them.
type Hub struct {
	session  Session
	bus      *eventbus.Bus
	log      logging.Logger
	upgrader websocket.Upgrader

	inbound chan inbound
	done    chan struct{}

	mu      sync.Mutex
	clients map[*client]struct{}
	subs    []eventbus.ListenerID
}

// NewHub builds a hub over session. Call Run to start applying client
// input.
func NewHub(session Session, bus *eventbus.Bus, opts ...Option) *Hub {
	h := &Hub{
		session: session,
		bus:     bus,
		log:     logging.Nop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		inbound: make(chan inbound, 64),
		done:    make(chan struct{}),
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = logging.Component(h.log, hubSource)
	return h
}

// Run subscribes to state notifications and applies client input until ctx
// is done. It blocks.
func (h *Hub) Run(ctx context.Context) {
	if h.bus != nil {
		broadcast := func(eventbus.Event) error {
			h.Broadcast()
			return nil
		}
		h.mu.Lock()
		h.subs = []eventbus.ListenerID{
			h.bus.Subscribe(eventbus.TopicStateChanged, broadcast, hubSource),
			h.bus.Subscribe(eventbus.TopicStateLoaded, broadcast, hubSource),
		}
		h.mu.Unlock()
	}
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case in := <-h.inbound:
			h.apply(in)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.bus != nil && len(h.subs) == 2 {
		h.bus.Unsubscribe(eventbus.TopicStateChanged, h.subs[0])
		h.bus.Unsubscribe(eventbus.TopicStateLoaded, h.subs[1])
	}
	h.subs = nil
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// apply runs on the Run goroutine only.
func (h *Hub) apply(in inbound) {
	switch in.msg.Type {
	case TypeAction:
		var env action.Envelope
		if err := json.Unmarshal(in.msg.Payload, &env); err != nil {
			h.reject(in.client, fmt.Errorf("decode action envelope: %w", err))
			return
		}
		act := action.Decode(env)
		if unknown, ok := act.(action.Unknown); ok {
			h.log.Debug("client sent unknown action", "type", unknown.Name)
		} else {
			h.log.Debug("client action", "type", env.Type)
		}
		h.session.Dispatch(act)
	case TypeTurnEnd:
		h.log.Debug("client ended turn")
		if h.bus != nil {
			h.bus.Emit(eventbus.TopicTurnEnd, nil, hubSource)
		}
	default:
		h.reject(in.client, fmt.Errorf("unsupported message type %q", in.msg.Type))
	}
}

func (h *Hub) reject(c *client, err error) {
	h.log.Warn("client message rejected", "error", err)
	payload, merr := json.Marshal(ErrorPayload{Message: err.Error()})
	if merr != nil {
		return
	}
	frame, merr := json.Marshal(Message{Type: TypeError, Payload: payload})
	if merr != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sendLocked(c, frame)
}

// Broadcast sends the current snapshot to every client.
func (h *Hub) Broadcast() {
	frame, err := h.snapshot()
	if err != nil {
		h.log.Error("encode snapshot", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.sendLocked(c, frame)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) snapshot() ([]byte, error) {
	payload, err := json.Marshal(h.session.State())
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: TypeState, Payload: payload})
}

// sendLocked drops a client whose buffer is full.
func (h *Hub) sendLocked(c *client, frame []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
		h.log.Warn("dropping slow client")
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) register(c *client) bool {
	frame, err := h.snapshot()
	if err != nil {
		h.log.Error("encode snapshot", "error", err)
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return false
	default:
	}
	h.clients[c] = struct{}{}
	c.send <- frame
	h.log.Info("client connected", "clients", len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.log.Info("client disconnected", "clients", len(h.clients))
	}
}

// submit hands a frame to the Run goroutine. It reports false once the hub
// has stopped.
func (h *Hub) submit(in inbound) bool {
	select {
	case h.inbound <- in:
		return true
	case <-h.done:
		return false
	}
}

// ServeHTTP upgrades the request and starts the client pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
