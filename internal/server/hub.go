package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event names pushed to websocket clients.
const (
	EventFullState = "full_state"
	EventGenerated = "generated"
	EventTick      = "tick"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func envelope(typ string, payload any) ([]byte, error) {
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Payload: p})
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans simulation updates out to every connected websocket client.
// Only Run touches the client set.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    map[*client]bool{},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Debug("ws client joined", "client", c.id, "clients", len(h.clients))
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug("ws client left", "client", c.id, "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Warn("ws client too slow, dropping", "client", c.id)
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast queues msg for all clients. It never blocks the caller; when the
// queue is full the update is dropped, later ones carry the full state anyway.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, update dropped")
	}
}

func (c *client) reader(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		// clients only listen; reading detects the close
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", "err", err)
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, 32)}

	s.mu.Lock()
	if s.sim != nil {
		if msg, err := envelope(EventFullState, s.sim.View()); err == nil {
			c.send <- msg
		}
	}
	s.mu.Unlock()

	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}
	go c.writer()
	go c.reader(s.hub)
}
