// Package notifyhub pushes gallery state to websocket clients.
package notifyhub

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// Event types.
const (
	EventItems  = "items"
	EventImages = "images"
)

const (
	DefaultWriteTimeout = 5 * time.Second
	DefaultSendBuffer   = 256
)

// Event is one push message. Data is encoded as JSON.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub holds websocket connections and broadcasts events to all of them. It
// remembers the last event of each type so late subscribers start from the
// current state.
//
// Broadcast never blocks on a connection: each client has a bounded queue
// drained by its own writer. A client whose queue is full, or whose write
// misses the deadline, is dropped and its connection closed.
type Hub struct {
	writeTimeout time.Duration
	sendBuffer   int

	mu    sync.Mutex
	conns map[*websocket.Conn]*client
	last  map[string][]byte
}

func New() *Hub {
	return NewWithLimits(DefaultWriteTimeout, DefaultSendBuffer)
}

// NewWithLimits builds a hub with a per-write deadline and a per-client
// queue length.
func NewWithLimits(writeTimeout time.Duration, sendBuffer int) *Hub {
	return &Hub{
		writeTimeout: writeTimeout,
		sendBuffer:   max(sendBuffer, 1),
		conns:        make(map[*websocket.Conn]*client),
		last:         make(map[string][]byte),
	}
}

// Register adds a connection. The latest events are queued to it before it
// becomes visible to Broadcast, so the replay always precedes newer events.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, h.sendBuffer+2)}

	h.mu.Lock()
	for _, typ := range []string{EventItems, EventImages} {
		if p, ok := h.last[typ]; ok {
			c.send <- p
		}
	}
	h.conns[conn] = c
	h.mu.Unlock()

	go h.writePump(c)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast queues ev as JSON for every registered connection.
func (h *Hub) Broadcast(ev Event) error {
	payload, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last[ev.Type] = payload
	for conn, c := range h.conns {
		select {
		case c.send <- payload:
		default:
			h.removeLocked(conn)
			_ = conn.Close()
		}
	}
	return nil
}

// removeLocked must be called with mu held.
func (h *Hub) removeLocked(conn *websocket.Conn) {
	c, ok := h.conns[conn]
	if !ok {
		return
	}
	delete(h.conns, conn)
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.Unregister(c.conn)
			_ = c.conn.Close()
			return
		}
	}
}
