// Package ws pushes committed order events to websocket clients.
//
// A client subscribes to specific orders with ?order=<id> (repeatable) or to
// every order when no filter is given. Delivery is best effort: a client that
// cannot keep up loses messages rather than slowing the relay down.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	orders map[string]struct{}
}

func (c *client) wants(orderID string) bool {
	if len(c.orders) == 0 {
		return true
	}
	_, ok := c.orders[orderID]
	return ok
}

// Hub tracks connected clients and implements ports.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *slog.Logger
	gauge   prometheus.Gauge
}

func NewHub(logger *slog.Logger, gauge prometheus.Gauge) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger.With(slog.String("component", "ws_hub")),
		gauge:   gauge,
	}
}

// Notify queues the event for every interested client without blocking.
func (h *Hub) Notify(event ports.OrderEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", slog.Any("error", err))
		return
	}

	orderID := event.OrderID.String()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(orderID) {
			continue
		}
		select {
		case c.send <- body:
		default:
			h.logger.Warn("client is too slow, event dropped", slog.String("order", event.OrderNumber))
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.gauge != nil {
		h.gauge.Inc()
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok && h.gauge != nil {
		h.gauge.Dec()
	}
}

// ServeWS upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", slog.Any("error", err))
		return nil
	}

	cl := &client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		orders: make(map[string]struct{}),
	}
	for _, id := range c.QueryParams()["order"] {
		if id != "" {
			cl.orders[id] = struct{}{}
		}
	}

	h.register(cl)
	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// readLoop only keeps the deadline alive; clients never send commands.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("unexpected close", slog.Any("error", err))
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
