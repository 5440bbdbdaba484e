package programws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

const pingPeriod = 30 * time.Second

type connectionGauge interface {
	SocketConnected()
	SocketDisconnected()
}

// Hub fans program events out to every open socket of the program's owner.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.ProgramEvent
	logger     *zap.Logger
	gauge      connectionGauge
	done       chan struct{}
}

// Client is one socket of a user. send is never closed; done is closed once
// the hub drops the client and every sender selects on it.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

type Message struct {
	Type      string          `json:"type"`
	ProgramID string          `json:"programId,omitempty"`
	Program   *models.Program `json:"program,omitempty"`
	Content   string          `json:"content,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// NewHub builds an idle hub; gauge may be nil.
func NewHub(logger *zap.Logger, gauge connectionGauge) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.ProgramEvent, 64),
		logger:     logger,
		gauge:      gauge,
		done:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
		done:   make(chan struct{}),
	}
}

// Done is closed once the hub stops serving the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Run owns the client registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for userID, set := range h.clients {
				for client := range set {
					h.drop(set, client)
				}
				delete(h.clients, userID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			if h.gauge != nil {
				h.gauge.SocketConnected()
			}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				h.drop(set, client)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Register adds client to the registry. A client registered after the hub
// stopped is closed immediately.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishProgramEvent queues an event without blocking the caller. Events are
// dropped when the queue is full.
func (h *Hub) PublishProgramEvent(event models.ProgramEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("program hub queue full, dropping event",
			zap.String("type", event.Type),
			zap.String("program_id", event.ProgramID),
		)
	}
}

func (h *Hub) deliver(event models.ProgramEvent) {
	encoded, err := json.Marshal(Message{
		Type:      event.Type,
		ProgramID: event.ProgramID,
		Program:   event.Program,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("program hub encode event", zap.Error(err))
		return
	}

	set, ok := h.clients[event.OwnerID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- encoded:
		default:
			h.drop(set, client)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.OwnerID)
	}
}

func (h *Hub) drop(set map[*Client]struct{}, client *Client) {
	delete(set, client)
	client.close()
	if h.gauge != nil {
		h.gauge.SocketDisconnected()
	}
}

// ReadPump keeps the connection open until the peer goes away. The stream
// is server to client only; a "ping" message is answered with "pong".
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil || incoming.Type != "ping" {
			c.reply("error", "unsupported message")
		} else {
			c.reply("pong", "")
		}

		select {
		case <-c.done:
			return
		default:
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) reply(messageType, content string) {
	payload, err := json.Marshal(Message{
		Type:      messageType,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		// The peer is not reading its replies.
		c.hub.Unregister(c)
		c.close()
	}
}
