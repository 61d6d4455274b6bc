package sse

import (
	"sync"

	"github.com/Gaelhpalmer/diarized-stt/logger"
)

// Client represents a connected SSE client.
type Client struct {
	id     string
	events chan []byte
}

// NewClient creates a new SSE client.
func NewClient(id string) *Client {
	return &Client{
		id:     id,
		events: make(chan []byte, 256),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel for receiving events.
func (c *Client) Events() <-chan []byte { return c.events }

// Send sends data to the client's event channel.
// Returns false if the channel is full (client is slow).
func (c *Client) Send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		// Channel full, client is too slow
		logger.Warn("[SSE] Client channel full, dropping event", map[string]interface{}{
			"client_id": c.id,
		})
		return false
	}
}

// Close closes the client's event channel.
func (c *Client) Close() {
	close(c.events)
}

// Broadcaster is an interface for broadcasting events to clients.
// Handlers depend on this abstraction rather than a concrete Hub.
type Broadcaster interface {
	// Broadcast sends data to all connected clients.
	Broadcast(data []byte)
}

// Hub manages SSE client connections and caption broadcasting.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	stopped    bool
	mu         sync.RWMutex
}

// Ensure Hub implements Broadcaster.
var _ Broadcaster = (*Hub)(nil)

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main event loop.
// It blocks until Stop is called. Run this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug("[SSE] Client registered", map[string]interface{}{
				"client_id":     client.id,
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.Close()
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.sendToAll(data)
		}
	}
}

// Stop signals the hub to shut down. It closes all client connections
// and causes Run to return. Safe to call multiple times.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.stopped = true
		close(h.done)
	}
}

// closeAllClients disconnects all clients during shutdown.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
}

// Register adds a client to the hub. After Stop it is a no-op so late
// connections do not block on the drained event loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub. Safe to call after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends data to all connected clients without blocking the caller.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// sendToAll delivers data to every client. Called from the hub goroutine.
func (h *Hub) sendToAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Send(data)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
