package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub tracks connected leaderboard listeners and fans out broadcasts.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection
	logger      zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		logger:      logger,
	}
}

// Register adds a connection and returns its id for later removal.
func (h *Hub) Register(conn *Connection) uuid.UUID {
	id := uuid.New()
	h.mu.Lock()
	h.connections[id] = conn
	h.mu.Unlock()
	h.logger.Debug().Str("conn_id", id.String()).Msg("ws connection registered")
	return id
}

// Unregister closes and removes a connection.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.connections[id]; ok {
		conn.Close()
		delete(h.connections, id)
		h.logger.Debug().Str("conn_id", id.String()).Msg("ws connection unregistered")
	}
}

// Broadcast delivers msg to every listener. Connections whose send
// queue is full are dropped rather than allowed to stall the rest.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.connections {
		if err := conn.Send(msg); err != nil {
			h.logger.Warn().Err(err).Str("conn_id", id.String()).Msg("dropping slow ws listener")
			conn.Close()
			delete(h.connections, id)
		}
	}
}

// Count reports the number of connected listeners.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Connection wraps a WebSocket connection with a bounded send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps conn. Call WritePump and ReadPump to start I/O.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 64),
		logger: logger,
	}
}

// Send queues a message; it never blocks.
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

// Close shuts the connection down once.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump drains the send queue onto the wire.
func (c *Connection) WritePump() {
	defer c.conn.Close()
	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("ws write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump consumes incoming frames, answering pings, until the peer
// goes away. The read deadline is extended on every pong and ping.
func (c *Connection) ReadPump() {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("ws read error")
			}
			return
		}
		if msg.Type == TypePing {
			c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_ = c.Send(Message{Type: TypePong})
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
