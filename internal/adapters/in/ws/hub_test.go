package ws_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*ws.Hub, prometheus.Gauge, string) {
	t.Helper()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "clients"})
	hub := ws.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), gauge)

	e := echo.New()
	e.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return hub, gauge, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *ws.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DeliversToSubscribers(t *testing.T) {
	hub, gauge, url := newServer(t)
	watched := kernel.NewUUID()
	other := kernel.NewUUID()

	all := dial(t, url)
	filtered := dial(t, url+"?order="+watched.String())
	waitClients(t, hub, 2)
	assert.InDelta(t, 2, testutil.ToFloat64(gauge), 0)

	hub.Notify(ports.OrderEvent{ID: kernel.NewUUID(), OrderID: other, OrderNumber: "ORD-1", Action: "first"})
	hub.Notify(ports.OrderEvent{ID: kernel.NewUUID(), OrderID: watched, OrderNumber: "ORD-2", Action: "second"})

	var got map[string]any
	_ = filtered.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, body, err := filtered.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "second", got["action"])
	assert.Equal(t, watched.String(), got["orderId"])

	_ = all.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, body, err = all.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "first", got["action"])
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, gauge, url := newServer(t)

	conn := dial(t, url)
	waitClients(t, hub, 1)

	require.NoError(t, conn.Close())

	waitClients(t, hub, 0)
	assert.InDelta(t, 0, testutil.ToFloat64(gauge), 0)
}

func TestHub_NotifyWithoutClients(t *testing.T) {
	hub := ws.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	assert.NotPanics(t, func() {
		hub.Notify(ports.OrderEvent{ID: kernel.NewUUID(), OrderID: kernel.NewUUID()})
	})
}
