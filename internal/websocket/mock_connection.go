package websocket

import (
	"errors"
	"sync"
	"time"
)

// MockConnection is an in-memory Connection for tests.
type MockConnection struct {
	mu       sync.Mutex
	written  [][]byte
	incoming chan []byte
	closed   bool
	writeErr error
}

// NewMockConnection creates a mock connection
func NewMockConnection() *MockConnection {
	return &MockConnection{
		incoming: make(chan []byte, 16),
	}
}

// WriteMessage records the written payload
func (c *MockConnection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	if c.writeErr != nil {
		return c.writeErr
	}
	msg := make([]byte, len(data))
	copy(msg, data)
	c.written = append(c.written, msg)
	return nil
}

// ReadMessage blocks until a queued message or close
func (c *MockConnection) ReadMessage() (int, []byte, error) {
	msg, ok := <-c.incoming
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return 1, msg, nil
}

// QueueMessage feeds a message to the next ReadMessage call
func (c *MockConnection) QueueMessage(data []byte) {
	c.incoming <- data
}

// Close marks the connection closed and unblocks readers
func (c *MockConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.incoming)
	}
	return nil
}

// SetWriteError makes subsequent writes fail
func (c *MockConnection) SetWriteError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// Written returns a copy of all written payloads
func (c *MockConnection) Written() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.written))
	copy(out, c.written)
	return out
}

// IsClosed reports whether Close was called
func (c *MockConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *MockConnection) SetReadDeadline(t time.Time) error  { return nil }
func (c *MockConnection) SetWriteDeadline(t time.Time) error { return nil }
func (c *MockConnection) SetReadLimit(limit int64)           {}
func (c *MockConnection) SetPongHandler(h func(string) error) {}
func (c *MockConnection) RemoteAddr() string                 { return "127.0.0.1:0" }
