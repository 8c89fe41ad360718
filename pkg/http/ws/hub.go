package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and broadcasts progress to job watchers.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // conn_id -> connection
	jobs        map[uuid.UUID][]uuid.UUID // job_id -> []conn_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		jobs:        make(map[uuid.UUID][]uuid.UUID),
		logger:      logger,
	}
}

// RegisterConnection adds a connection under a hub-assigned id.
func (h *Hub) RegisterConnection(connID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[connID]; exists {
		old.Close()
	}

	h.connections[connID] = conn
	h.logger.Info().Str("conn_id", connID.String()).Msg("connection registered")
}

// UnregisterConnection removes a connection and all of its subscriptions.
func (h *Hub) UnregisterConnection(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[connID]; exists {
		conn.Close()
		delete(h.connections, connID)
		h.logger.Info().Str("conn_id", connID.String()).Msg("connection unregistered")
	}

	for jobID, conns := range h.jobs {
		for i, cid := range conns {
			if cid == connID {
				h.jobs[jobID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.jobs[jobID]) == 0 {
			delete(h.jobs, jobID)
		}
	}
}

// SubscribeJob associates a connection with a job for targeted broadcasts.
func (h *Hub) SubscribeJob(jobID, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.jobs[jobID]
	for _, cid := range conns {
		if cid == connID {
			return // already subscribed
		}
	}
	h.jobs[jobID] = append(conns, connID)
}

// UnsubscribeJob removes a connection from a job.
func (h *Hub) UnsubscribeJob(jobID, connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.jobs[jobID]
	for i, cid := range conns {
		if cid == connID {
			h.jobs[jobID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
}

// BroadcastToJob sends a message to every watcher of a job.
func (h *Hub) BroadcastToJob(jobID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conns := make([]uuid.UUID, len(h.jobs[jobID]))
	copy(conns, h.jobs[jobID])
	h.mu.RUnlock()

	var firstErr error
	for _, connID := range conns {
		if err := h.SendToConnection(connID, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendToConnection delivers a message to a specific connection.
func (h *Hub) SendToConnection(connID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[connID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// Watchers reports how many connections follow a job.
func (h *Hub) Watchers(jobID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.jobs[jobID])
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	if c.conn != nil {
		c.conn.Close()
	}
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	// Set read deadline to 60 seconds, extend on pong
	readDeadline := time.Now().Add(60 * time.Second)
	c.conn.SetReadDeadline(readDeadline)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
