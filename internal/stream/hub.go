package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/orderlyhq/orderly-starter/internal/logging"
)

const writeTimeout = 5 * time.Second

// Hub fans settings updates out to the dashboards currently open for a
// shop, so two admin tabs stay in sync without polling.
type Hub struct {
	mu    sync.Mutex
	shops map[string]map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		shops: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Subscribe registers a connection for a shop and starts draining
// client frames. The connection is unregistered and closed when the
// client goes away.
func (h *Hub) Subscribe(shop string, conn *websocket.Conn) {
	h.mu.Lock()
	subs, ok := h.shops[shop]
	if !ok {
		subs = make(map[*websocket.Conn]struct{})
		h.shops[shop] = subs
	}
	subs[conn] = struct{}{}
	h.mu.Unlock()

	go h.drain(shop, conn)
}

// Broadcast sends payload as JSON to every subscriber of shop,
// dropping connections that fail to accept the write.
func (h *Hub) Broadcast(shop string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.shops[shop]
	for conn := range subs {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(payload); err != nil {
			logger := logging.L()
			logger.Debug().Err(err).Str("shop", shop).Msg("dropping dead settings subscriber")
			delete(subs, conn)
			_ = conn.Close()
		}
	}
	if len(subs) == 0 {
		delete(h.shops, shop)
	}
}

// Subscribers reports how many connections are registered for a shop.
func (h *Hub) Subscribers(shop string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.shops[shop])
}

// drain discards incoming frames until the connection errors, then
// unregisters it.
func (h *Hub) drain(shop string, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if subs, ok := h.shops[shop]; ok {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(h.shops, shop)
		}
	}
	h.mu.Unlock()
	_ = conn.Close()
}
