package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"noteria/backend/broker"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 30 * time.Second
	wsMaxMessageSize = 4096
	wsSendBuffer     = 256
)

type WebSocketServiceInterface interface {
	Start(ctx context.Context) error
	Stop()
	HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID)
	ConnectedClients() int
}

// Client is one websocket session. It only ever receives events caused by its own user.
type Client struct {
	ID     string
	UserID uuid.UUID
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte

	mu            sync.Mutex
	subscriptions map[string]bool
}

type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ServerMessage struct {
	Type    string      `json:"type"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type subscriptionPayload struct {
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
}

type WebSocketService struct {
	clients      map[string]*Client
	unregister   chan *Client
	events       chan broker.Envelope
	clientsMutex sync.RWMutex

	upgrader    websocket.Upgrader
	broker      broker.Broker
	unsubscribe func()
	logger      *slog.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

func NewWebSocketService(b broker.Broker, checkOrigin func(r *http.Request) bool, logger *slog.Logger) *WebSocketService {
	if logger == nil {
		logger = slog.Default()
	}
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WebSocketService{
		clients:    make(map[string]*Client),
		unregister: make(chan *Client),
		events:     make(chan broker.Envelope, wsSendBuffer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		broker:   b,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start subscribes to every event subject and runs the hub until ctx ends or Stop is called.
func (ws *WebSocketService) Start(ctx context.Context) error {
	unsubscribe, err := ws.broker.Subscribe(broker.AllEvents, ws.onBrokerMessage)
	if err != nil {
		return err
	}
	ws.unsubscribe = unsubscribe

	go ws.run(ctx)
	ws.logger.Info("websocket hub started")
	return nil
}

func (ws *WebSocketService) Stop() {
	ws.stopOnce.Do(func() {
		if ws.unsubscribe != nil {
			ws.unsubscribe()
		}
		close(ws.stopChan)

		ws.clientsMutex.Lock()
		for _, client := range ws.clients {
			if client != nil && client.Conn != nil {
				client.Conn.Close()
			}
		}
		ws.clientsMutex.Unlock()

		ws.logger.Info("websocket hub stopped")
	})
}

func (ws *WebSocketService) ConnectedClients() int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	return len(ws.clients)
}

func (ws *WebSocketService) onBrokerMessage(msg broker.Message) {
	env, err := broker.DecodeEnvelope(msg.Data)
	if err != nil {
		ws.logger.Warn("dropping undecodable event", "subject", msg.Subject, "error", err)
		return
	}
	select {
	case ws.events <- env:
	default:
		ws.logger.Warn("websocket event buffer full, dropping event", "event_id", env.ID)
	}
}

func (ws *WebSocketService) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ws.Stop()
			return
		case <-ws.stopChan:
			return

		case client := <-ws.unregister:
			ws.removeClient(client)

		case env := <-ws.events:
			ws.route(env)
		}
	}
}

func (ws *WebSocketService) removeClient(client *Client) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	if _, ok := ws.clients[client.ID]; ok {
		delete(ws.clients, client.ID)
		close(client.Send)
		ws.logger.Debug("websocket client disconnected", "client_id", client.ID)
	}
}

// route delivers env to the actor's own sessions whose subscriptions match it.
func (ws *WebSocketService) route(env broker.Envelope) {
	message, err := json.Marshal(ServerMessage{Type: "event", Event: env.Type, Payload: env})
	if err != nil {
		ws.logger.Error("failed to encode websocket event", "event_id", env.ID, "error", err)
		return
	}

	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	for id, client := range ws.clients {
		if client.UserID != env.ActorID || !client.wants(env) {
			continue
		}
		select {
		case client.Send <- message:
		default:
			ws.logger.Warn("websocket client too slow, disconnecting", "client_id", id)
			close(client.Send)
			delete(ws.clients, id)
		}
	}
}

// HandleConnection upgrades the request. userID must come from a verified token.
func (ws *WebSocketService) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:            uuid.NewString(),
		UserID:        userID,
		Hub:           ws,
		Conn:          conn,
		Send:          make(chan []byte, wsSendBuffer),
		subscriptions: make(map[string]bool),
	}

	// The client is in the map before readPump starts so replies to its first
	// messages are not dropped.
	ws.clientsMutex.Lock()
	select {
	case <-ws.stopChan:
		ws.clientsMutex.Unlock()
		conn.Close()
		return
	default:
	}
	ws.clients[client.ID] = client
	ws.clientsMutex.Unlock()
	ws.logger.Debug("websocket client connected", "client_id", client.ID, "user_id", client.UserID)

	go client.readPump()
	go client.writePump()
}

// wants reports whether the client's subscriptions cover env. No subscriptions means everything.
func (c *Client) wants(env broker.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.subscriptions) == 0 || c.subscriptions["all"] {
		return true
	}
	return c.subscriptions[env.Entity] || c.subscriptions[env.Entity+":"+env.EntityID.String()]
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.stopChan:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(wsMaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug("websocket read failed", "client_id", c.ID, "error", err)
			}
			return
		}
		c.processMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processMessage(msg []byte) {
	var clientMsg ClientMessage
	if err := json.Unmarshal(msg, &clientMsg); err != nil {
		c.Hub.logger.Debug("invalid websocket message", "client_id", c.ID, "error", err)
		return
	}

	switch clientMsg.Type {
	case "subscribe", "unsubscribe":
		var payload subscriptionPayload
		if err := json.Unmarshal(clientMsg.Payload, &payload); err != nil || payload.Resource == "" {
			c.reply(ServerMessage{Type: "error", Event: "invalid_subscription", Payload: clientMsg.Type})
			return
		}
		key := payload.Resource
		if payload.ID != "" {
			key += ":" + payload.ID
		}

		c.mu.Lock()
		if clientMsg.Type == "subscribe" {
			c.subscriptions[key] = true
		} else {
			delete(c.subscriptions, key)
		}
		c.mu.Unlock()

		c.reply(ServerMessage{Type: "subscription", Event: clientMsg.Type + "d", Payload: payload})
	case "ping":
		c.reply(ServerMessage{Type: "pong"})
	default:
		c.Hub.logger.Debug("unknown websocket message type", "client_id", c.ID, "type", clientMsg.Type)
	}
}

// reply queues a direct response. The hub owns Send's lifecycle, so the write goes
// through it under the clients lock.
func (c *Client) reply(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.Hub.clientsMutex.RLock()
	defer c.Hub.clientsMutex.RUnlock()
	if _, ok := c.Hub.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}
