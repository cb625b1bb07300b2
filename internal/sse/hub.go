package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AhemdNada/alx-company/internal/metrics"
)

const frameBufferSize = 16

// Client is one registered streaming connection. The HTTP handler owns the
// receive side of Frames; the hub owns registration state.
type Client struct {
	frames chan []byte
}

// Frames returns the channel of wire-ready SSE frames for this client.
func (c *Client) Frames() <-chan []byte {
	return c.frames
}

// Hub is the process-wide registry of streaming clients. It is safe for
// concurrent use from any number of request handlers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a new client and returns its handle.
func (h *Hub) Register() *Client {
	client := &Client{frames: make(chan []byte, frameBufferSize)}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.StreamConnectedClients.Set(float64(total))
	slog.Debug("Stream client registered", "total_clients", total)
	return client
}

// Unregister removes a client. Calling it twice, or with a client that was
// never registered, is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.StreamConnectedClients.Set(float64(total))
	slog.Debug("Stream client unregistered", "remaining_clients", total)
}

// ClientCount returns the number of currently registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast serializes payload and enqueues one SSE frame for every
// registered client. A client whose buffer is full simply misses the frame;
// nothing blocks, nothing is reported to the caller.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal broadcast payload", "event", event, "error", err)
		return
	}
	frame := formatFrame(event, data)

	h.mu.RLock()
	dropped := 0
	for client := range h.clients {
		select {
		case client.frames <- frame:
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	metrics.StreamEventsTotal.WithLabelValues(event).Inc()
	if dropped > 0 {
		metrics.StreamDroppedFramesTotal.Add(float64(dropped))
		slog.Warn("Dropped broadcast frame for slow clients", "event", event, "dropped", dropped)
	}
}

// formatFrame renders one event in standard SSE framing.
func formatFrame(event string, data []byte) []byte {
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event, data)
}

// PingFrame is the comment frame written periodically to keep intermediaries
// from dropping long-idle connections.
var PingFrame = []byte(": ping\n\n")
