// Package spectate streams live games to websocket viewers.
//
// Messages use the same envelope as the Battlesnake engine stream:
// {"type": "frame" | "game_end", "data": {...}}.
package spectate

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/brensch/snek-arcade/game"
)

const (
	EventFrame   = "frame"
	EventGameEnd = "game_end"

	clientBuffer = 32
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FrameData is the payload of both event types.
type FrameData struct {
	GameID string `json:"game_id"`
	game.Snapshot
}

type client struct {
	send chan []byte
}

// Hub fans frames out to connected clients. A client that cannot keep up
// is disconnected instead of stalling the game loop.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	latest  *FrameData
	log     *slog.Logger
	dropped int
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (h *Hub) Frame(gameID string, snap game.Snapshot) {
	h.broadcast(EventFrame, gameID, snap)
}

func (h *Hub) GameEnd(gameID string, snap game.Snapshot) {
	h.broadcast(EventGameEnd, gameID, snap)
}

// Latest returns the most recent frame, if any.
func (h *Hub) Latest() (FrameData, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return FrameData{}, false
	}
	return *h.latest, true
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts clients disconnected for falling behind.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func encodeEvent(kind string, data FrameData) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: kind, Data: raw})
}

func (h *Hub) broadcast(kind, gameID string, snap game.Snapshot) {
	data := FrameData{GameID: gameID, Snapshot: snap}
	msg, err := encodeEvent(kind, data)
	if err != nil {
		h.log.Error("encode spectator event", "type", kind, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &data
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(h.clients, c)
			h.dropped++
			h.log.Warn("dropped slow spectator", "game_id", gameID)
		}
	}
}

// register adds a client and queues the latest frame so a new viewer sees
// the board immediately.
func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.latest == nil {
		return
	}
	if msg, err := encodeEvent(EventFrame, *h.latest); err == nil {
		c.send <- msg
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}
