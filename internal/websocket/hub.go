package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientConn is the connection surface the hub needs from a client
type ClientConn interface {
	ID() string
	WorkspaceID() int32
	Send(data []byte) error
	Close() error
}

// Hub fans events out to the clients of each workspace. Safe for
// concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[int32]map[string]ClientConn // workspace ID -> client ID -> client
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[int32]map[string]ClientConn),
	}
}

// Register adds a client to its workspace's fan-out set
func (h *Hub) Register(client ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID := client.WorkspaceID()
	if h.clients[workspaceID] == nil {
		h.clients[workspaceID] = make(map[string]ClientConn)
	}
	h.clients[workspaceID][client.ID()] = client

	log.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	workspaceID := client.WorkspaceID()
	if set, ok := h.clients[workspaceID]; ok {
		delete(set, client.ID())
		if len(set) == 0 {
			delete(h.clients, workspaceID)
		}
	}
}

// ClientCount returns the number of clients connected for a workspace
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// Publish implements EventPublisher by broadcasting to the workspace
func (h *Hub) Publish(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	targets := make([]ClientConn, 0, len(h.clients[workspaceID]))
	for _, client := range h.clients[workspaceID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	// Send outside the lock; a slow client must not stall the others
	for _, client := range targets {
		go func(c ClientConn) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Int32("workspace_id", workspaceID).
					Str("client_id", c.ID()).
					Msg("Failed to send event to client")
			}
		}(client)
	}
}

// Shutdown closes every connected client
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for workspaceID, set := range h.clients {
		for _, client := range set {
			_ = client.Close()
		}
		delete(h.clients, workspaceID)
	}
}
