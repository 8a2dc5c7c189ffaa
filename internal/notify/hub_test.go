package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "notifications:42", Channel(42))
}

func TestHub_LocalDelivery(t *testing.T) {
	hub := NewHub(nil, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 7)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connected(7) == 1 }, time.Second, 10*time.Millisecond)

	// Other users' notifications are not delivered
	require.NoError(t, hub.Publish(context.Background(), &models.Notification{ID: 1, UserID: 8, Title: "not yours"}))
	require.NoError(t, hub.Publish(context.Background(), &models.Notification{ID: 2, UserID: 7, Title: "Payment verified"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Notification
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, "Payment verified", got.Title)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub(nil, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 3)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connected(3) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connected(3) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ChecksOrigin(t *testing.T) {
	hub := NewHub(nil, []string{"http://app.example.com"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 5)
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func(origin string) (*websocket.Conn, *http.Response, error) {
		return websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {origin}})
	}

	_, resp, err := dial("http://evil.example")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, hub.Connected(5))

	for _, origin := range []string{"http://app.example.com", srv.URL} {
		conn, _, err := dial(origin)
		require.NoError(t, err, origin)
		conn.Close()
	}
}

func TestHub_WildcardOrigin(t *testing.T) {
	hub := NewHub(nil, []string{"*"})
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "http://anywhere.example")
	assert.True(t, hub.checkOrigin(r))

	hub = NewHub(nil, nil)
	assert.False(t, hub.checkOrigin(r))
	r.Header.Del("Origin")
	assert.True(t, hub.checkOrigin(r))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), &models.Notification{UserID: 1}))
}
