package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// RoleRoom returns the room name all clients with the given role join.
// The naming convention is part of the wire contract with the frontend.
func RoleRoom(role string) string { return "role-" + role }

// UserRoom returns the private room for a single user.
func UserRoom(userID string) string { return "user-" + userID }

// Envelope is the JSON frame pushed to clients.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connected clients and their room membership. Clients join their
// role and user rooms on connect; emits address rooms by name only.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) register(c *Client, rooms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	for _, room := range rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*Client]struct{})
		}
		h.rooms[room][c] = struct{}{}
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// EmitToRoom pushes an event to every client in the named room. Delivery is
// fire-and-forget: a client whose send buffer is full misses the frame.
func (h *Hub) EmitToRoom(room, event string, data interface{}) {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		zap.L().Error("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.trySend(frame)
	}
}

// Broadcast pushes an event to every connected client.
func (h *Hub) Broadcast(event string, data interface{}) {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		zap.L().Error("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.trySend(frame)
	}
}
