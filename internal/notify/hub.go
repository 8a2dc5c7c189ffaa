// Package notify delivers persisted notifications to connected clients in real time.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// Publisher pushes a notification that has already been committed to the store.
type Publisher interface {
	Publish(ctx context.Context, n *models.Notification) error
}

// Nop drops everything
type Nop struct{}

func (Nop) Publish(context.Context, *models.Notification) error { return nil }

// Channel is the Redis pub/sub channel carrying a user's notifications
func Channel(userID int) string {
	return fmt.Sprintf("notifications:%d", userID)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type client struct {
	userID int
	send   chan []byte
}

// Hub keeps the websocket clients of this process. With Redis, Publish goes
// through the user's channel so every replica's clients receive it; without,
// it fans out to local clients only.
type Hub struct {
	redis    *redis.Client
	origins  []string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[int]map[*client]struct{}
}

// NewHub accepts handshakes from the same host or from one of
// allowedOrigins (the CORS list); "*" allows any origin.
func NewHub(c *cache.Cache, allowedOrigins []string) *Hub {
	h := &Hub{
		redis:   c.Client(),
		origins: allowedOrigins,
		clients: make(map[int]map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin guards the cookie-authenticated socket against cross-site
// handshakes. Requests without an Origin header are not from a browser.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (h *Hub) Publish(ctx context.Context, n *models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if h.redis == nil {
		h.deliver(n.UserID, payload)
		metrics.NotificationsPublished.WithLabelValues("local").Inc()
		return nil
	}

	if err := h.redis.Publish(ctx, Channel(n.UserID), payload).Err(); err != nil {
		metrics.NotificationsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish notification %d: %w", n.ID, err)
	}
	metrics.NotificationsPublished.WithLabelValues("redis").Inc()
	return nil
}

func (h *Hub) deliver(userID int, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer; the notification is still in the store
			log.Printf("[Notify] Dropping frame for user %d, send buffer full", userID)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	metrics.WebsocketClients.Inc()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			metrics.WebsocketClients.Dec()
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
}

// Connected returns how many sockets userID has open on this process
func (h *Hub) Connected(userID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and streams userID's notifications until the
// client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Notify] WebSocket upgrade error: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{userID: userID, send: make(chan []byte, sendBuffer)}
	h.register(c)

	if h.redis != nil {
		sub := h.redis.Subscribe(ctx, Channel(userID))
		go func() {
			defer sub.Close()
			ch := sub.Channel()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-ch:
					if !ok {
						return
					}
					select {
					case c.send <- []byte(msg.Payload):
					default:
						log.Printf("[Notify] Dropping frame for user %d, send buffer full", userID)
					}
				}
			}
		}()
	}

	go h.writePump(ctx, conn, c)
	h.readPump(conn)

	cancel()
	h.unregister(c)
	conn.Close()
}

// readPump discards client frames and returns once the connection drops
func (h *Hub) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}
