package notifications

import (
	"sync"

	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/realtime"
)

// Emitter is the transport side of the notifier: addressed, fire-and-forget
// delivery with no acknowledgement.
type Emitter interface {
	EmitToRole(role, event string, data interface{})
	EmitToUser(userID, event string, data interface{})
	EmitToAll(event string, data interface{})
	HasConnectedClients() bool
}

// HubEmitter adapts the websocket hub to the Emitter interface. Room names
// follow the role-<role> / user-<id> convention.
type HubEmitter struct {
	hub *realtime.Hub
}

func NewHubEmitter(hub *realtime.Hub) *HubEmitter {
	return &HubEmitter{hub: hub}
}

func (e *HubEmitter) EmitToRole(role, event string, data interface{}) {
	e.hub.EmitToRoom(realtime.RoleRoom(role), event, data)
}

func (e *HubEmitter) EmitToUser(userID, event string, data interface{}) {
	e.hub.EmitToRoom(realtime.UserRoom(userID), event, data)
}

func (e *HubEmitter) EmitToAll(event string, data interface{}) {
	e.hub.Broadcast(event, data)
}

func (e *HubEmitter) HasConnectedClients() bool {
	return e.hub.ClientCount() > 0
}

var (
	defaultMu       sync.RWMutex
	defaultNotifier *Notifier
)

// Initialize wires the default notifier to the given emitter. Called once at
// bootstrap; calling again replaces the emitter (last call wins). Until then
// every emit through the default notifier logs an error and does nothing.
func Initialize(e Emitter) {
	defaultMu.Lock()
	defaultNotifier = New(e)
	defaultMu.Unlock()
}

// Default returns the process-wide notifier. Safe to call before Initialize;
// the returned notifier simply no-ops.
func Default() *Notifier {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultNotifier == nil {
		return &Notifier{}
	}
	return defaultNotifier
}

// Notifier shapes domain occurrences into emit calls. Stateless apart from
// the emitter reference; safe for concurrent use.
type Notifier struct {
	emitter Emitter
}

func New(e Emitter) *Notifier {
	return &Notifier{emitter: e}
}

// HasConnectedClients reports whether any client would receive an emit.
// False when the notifier is not wired to a transport.
func (n *Notifier) HasConnectedClients() bool {
	if n == nil || n.emitter == nil {
		return false
	}
	return n.emitter.HasConnectedClients()
}

func (n *Notifier) ready(event string) bool {
	if n == nil || n.emitter == nil {
		zap.L().Error("notifier not initialized, dropping event", zap.String("event", event))
		return false
	}
	return true
}

func (n *Notifier) toRole(role, event string, data interface{}) {
	if !n.ready(event) {
		return
	}
	n.emitter.EmitToRole(role, event, data)
}

func (n *Notifier) toUser(userID, event string, data interface{}) {
	if !n.ready(event) {
		return
	}
	n.emitter.EmitToUser(userID, event, data)
}

func (n *Notifier) toAll(event string, data interface{}) {
	if !n.ready(event) {
		return
	}
	n.emitter.EmitToAll(event, data)
}
