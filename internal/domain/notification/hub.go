package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// eventsChannel is the Redis pub/sub channel carrying booking events so
// every API instance can deliver to its own sockets.
const eventsChannel = "booking:events"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

type userEvent struct {
	UserID  uuid.UUID       `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Connection represents one WebSocket client
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub fans booking events out to connected clients. With Redis configured it
// subscribes to the events channel so instances share one event stream;
// without Redis it degrades to local-only delivery.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	mu          sync.RWMutex

	redis  *redis.Client
	pubsub *redis.PubSub

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a booking event hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run processes connection churn and the Redis subscription. Call in a
// goroutine; Shutdown stops it.
func (h *Hub) Run() {
	var events <-chan *redis.Message
	if h.redis != nil {
		h.pubsub = h.redis.Subscribe(h.ctx, eventsChannel)
		events = h.pubsub.Channel()
	}

	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns := h.connections[conn.UserID]; conns != nil {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			h.mu.Unlock()

		case msg, ok := <-events:
			if !ok {
				return
			}
			var event userEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("Malformed booking event on pub/sub")
				continue
			}
			h.deliverLocal(event.UserID, event.Payload)

		case <-h.ctx.Done():
			return
		}
	}
}

// Shutdown stops the hub and closes the Redis subscription
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}

// Publish sends a payload to every connection of the user, on every instance
func (h *Hub) Publish(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if h.redis == nil {
		h.deliverLocal(userID, raw)
		return nil
	}

	event, err := json.Marshal(userEvent{UserID: userID, Payload: raw})
	if err != nil {
		return err
	}
	return h.redis.Publish(ctx, eventsChannel, event).Err()
}

func (h *Hub) deliverLocal(userID uuid.UUID, raw []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- raw:
		default:
			// Slow consumer; drop rather than block the hub
			log.Warn().Str("user_id", userID.String()).Msg("Dropping booking event for slow consumer")
		}
	}
}

// Serve registers the connection and starts its read/write pumps
func (h *Hub) Serve(conn *Connection) {
	h.register <- conn
	go conn.writePump()
	conn.readPump(h)
}

func (c *Connection) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Clients only listen; discard anything they send
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
