package websocket

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pitchpulse/internal/infrastructure"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	// Must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// heartbeatMessage is the keep-alive payload the dashboard sends.
var heartbeatMessage = []byte(`{"type":"heartbeat"}`)

// Client sits between a websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn Connection
	send chan []byte

	id          string
	remoteAddr  string
	connectedAt time.Time

	logger *slog.Logger
}

// NewClient creates a client for a gorilla websocket connection
func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return NewClientWithConnection(hub, WrapConnection(conn), logger)
}

// NewClientWithConnection creates a client over any Connection
func NewClientWithConnection(hub *Hub, conn Connection, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		id:          id,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
	}
}

// ReadPump pumps messages from the connection to the hub. It owns the
// read side of the connection and unregisters the client on exit.
func (c *Client) ReadPump() {
	defer func() {
		c.logger.Info("client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)))
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("unexpected close error", slog.String("error", err.Error()))
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
		GetMetrics().RecordMessageReceived(context.Background(), int64(len(message)))

		c.hub.mu.Lock()
		c.hub.messagesReceived++
		c.hub.mu.Unlock()

		if bytes.Equal(message, heartbeatMessage) {
			c.logger.Debug("heartbeat received")
			continue
		}
		// Other client messages are ignored
	}
}

// WritePump pumps messages from the hub to the connection and keeps the
// connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("write failed", slog.String("error", err.Error()))
				return
			}
			GetMetrics().RecordMessageSent(context.Background(), int64(len(message)))

			// Drain queued messages as individual frames
			n := len(c.send)
			for i := 0; i < n; i++ {
				msg, more := <-c.send
				if !more {
					return
				}
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					c.logger.Error("write failed", slog.String("error", err.Error()))
					return
				}
				GetMetrics().RecordMessageSent(context.Background(), int64(len(msg)))
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// ServeWS wires an upgraded connection into the hub
func ServeWS(hub *Hub, conn *websocket.Conn) {
	client := NewClient(hub, conn, nil)
	client.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
