package orderControllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesDashboards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", hub.Handler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	order := models.Order{ID: "o1", UserID: "u1", Total: 1660, Status: models.OrderStatusConfirmed}
	hub.Broadcast(OrderEvent{Type: EventOrderCreated, Order: order})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event OrderEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventOrderCreated, event.Type)
	assert.Equal(t, "o1", event.Order.ID)
	assert.Equal(t, 1660.0, event.Order.Total)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(OrderEvent{Type: EventOrderStatus})
	assert.Zero(t, hub.Clients())
}
