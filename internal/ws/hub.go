package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Hub keeps the flat connection directory (connection ID -> socket).
// Room membership lives in rooms.Store; the hub only answers "how do I
// reach this connection". It implements call.Sink.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*clientConn
}

func NewHub() *Hub { return &Hub{conns: make(map[string]*clientConn)} }

func (h *Hub) add(c *clientConn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

func (h *Hub) get(id string) (*clientConn, bool) {
	h.mu.RLock()
	c, ok := h.conns[id]
	h.mu.RUnlock()
	return c, ok
}

// Send pushes one event to one connection. Delivery is fire-and-forget:
// a write failure means the socket is dying and its own reader loop
// will run the teardown.
func (h *Hub) Send(connID, event string, body any) {
	c, ok := h.get(connID)
	if !ok {
		zap.L().Debug("ws.send_no_conn", zap.String("conn", connID), zap.String("event", event))
		return
	}
	if err := c.writeJSON(outEnvelope{Event: event, Body: body}); err != nil {
		zap.L().Warn("ws.send_failed",
			zap.String("conn", connID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
