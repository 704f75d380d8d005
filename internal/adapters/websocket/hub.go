package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// ErrHubStopped is returned by Attach once Run has returned
var ErrHubStopped = errors.New("event hub stopped")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one connected event listener
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans record change events out to every connected listener
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
	countHook  func(int)
}

// EventMessage is the JSON frame sent for every change
type EventMessage struct {
	Type      string    `json:"type"`
	Key       string    `json:"key"`
	ChangedAt time.Time `json:"changed_at"`
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run serves registrations and broadcasts until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.log.Debug().Int("clients", len(h.clients)).Msg("listener connected")
			h.reportCount()
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Debug().Int("clients", len(h.clients)).Msg("listener disconnected")
				h.reportCount()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Forward relays change events into the hub until the channel closes or ctx is done
func (h *Hub) Forward(ctx context.Context, events <-chan domain.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b, err := json.Marshal(EventMessage{Type: "record_changed", Key: string(ev.Key), ChangedAt: ev.ChangedAt})
			if err != nil {
				h.log.Error().Err(err).Msg("failed to encode change event")
				continue
			}
			select {
			case h.broadcast <- b:
			case <-ctx.Done():
				return
			}
		}
	}
}

// OnCountChange installs a callback invoked with the listener count after every change.
// It must be called before Run.
func (h *Hub) OnCountChange(fn func(int)) {
	h.countHook = fn
}

// reportCount must be called with h.mu held
func (h *Hub) reportCount() {
	if h.countHook != nil {
		h.countHook(len(h.clients))
	}
}

// ClientCount returns the number of connected listeners
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attach upgrades the request and registers the connection with the hub
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// leave unregisters c unless the hub has already stopped
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// readPump only drains control frames; listeners never send data
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Msg("websocket error")
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
