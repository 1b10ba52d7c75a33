package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pitchpulse/internal/infrastructure"
)

// Message type constants
const (
	TypeConnection        = "connection"
	TypeDataUpdate        = "data_update"
	TypeError             = "error"
	TypeOperationSnapshot = "operation:snapshot"

	SubtypeAll    = "all"
	ActionRefresh = "refresh"
)

// Hub maintains the set of active clients and fans broadcast messages
// out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	messagesSent     int64
	messagesReceived int64

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = logger.With(slog.String("component", "websocket.hub"))

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Start launches the hub's main loop
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.logger.Info("hub shutting down")
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.totalConnections++
	count := len(h.clients)
	h.mu.Unlock()

	ctx := context.Background()
	h.logger.InfoContext(ctx, "client registered",
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr),
		slog.Int("total_clients", count),
	)
	GetMetrics().RecordConnection(ctx)

	welcome, err := json.Marshal(map[string]interface{}{
		"type": TypeConnection,
		"data": map[string]interface{}{
			"status":    "connected",
			"client_id": client.id,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	select {
	case client.send <- welcome:
	default:
		h.logger.Warn("welcome message dropped, client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := context.Background()
	duration := time.Since(client.connectedAt)
	h.logger.InfoContext(ctx, "client unregistered",
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", duration),
		slog.Int("total_clients", count),
	)
	GetMetrics().RecordDisconnection(ctx, duration)
}

func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	ctx := context.Background()
	failed := 0

	for _, client := range clients {
		select {
		case client.send <- message:
			h.mu.Lock()
			h.messagesSent++
			h.mu.Unlock()
		default:
			// Slow consumer, drop the connection rather than block the hub
			failed++
			GetMetrics().RecordDropped(ctx)
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Warn("client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	GetMetrics().RecordBroadcast(ctx, int64(len(clients)), int64(failed))
}

// BroadcastUpdate sends an update message to all connected clients.
// Operation snapshots carry everything in data; other event types keep
// the subtype and action fields for the dashboard's refresh handling.
func (h *Hub) BroadcastUpdate(updateType, subtype, action string, data interface{}) {
	message := map[string]interface{}{
		"type":      updateType,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if updateType != TypeOperationSnapshot {
		message["subtype"] = subtype
		message["action"] = action
	}
	h.BroadcastJSON(message)
}

// BroadcastRefresh tells clients to reload data for the given components
func (h *Hub) BroadcastRefresh(source string, components []string) {
	h.BroadcastUpdate(TypeDataUpdate, SubtypeAll, ActionRefresh, map[string]interface{}{
		"source":     source,
		"components": components,
	})
}

// BroadcastError sends a structured error message
func (h *Hub) BroadcastError(code, message, step string, recoverable bool) {
	h.BroadcastJSON(map[string]interface{}{
		"type": TypeError,
		"data": map[string]interface{}{
			"code":        code,
			"message":     message,
			"step":        step,
			"recoverable": recoverable,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// BroadcastJSON marshals and broadcasts a message
func (h *Hub) BroadcastJSON(message map[string]interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message",
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.quit:
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns hub counters for the health endpoint
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_received": h.messagesReceived,
	}
}

// Stop shuts the hub down and closes all client connections
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
