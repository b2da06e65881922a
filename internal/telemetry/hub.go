// Package telemetry serves LED frames, cast state and diagnostics over
// websockets and accepts cast commands from a control socket.
package telemetry

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 200 * time.Millisecond

// client serializes writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// hub is a set of clients receiving the same stream.
type hub struct {
	name    string
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

func newHub(name string, log zerolog.Logger) *hub {
	return &hub{name: name, clients: map[*client]struct{}{}, log: log}
}

func (h *hub) add(conn *websocket.Conn) *client {
	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.conn.Close()
}

func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) broadcast(b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if err := c.write(b); err != nil {
			h.log.Debug().Err(err).Str("stream", h.name).Msg("write")
		}
	}
}

// drain reads until the peer goes away, then drops the client.
func (h *hub) drain(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
