// Package gateway connects companion devices over websockets.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nwah/naviwatch-bridge/watch"
)

const (
	DefaultQueueSize   = 16
	DefaultPingSeconds = 30
	writeWait          = 10 * time.Second
	maxMessageSize     = 64 * 1024
)

// ErrNoDevice is returned by Send when no device is connected.
var ErrNoDevice = errors.New("no companion device connected")

// Config holds gateway settings
type Config struct {
	QueueSize   int `toml:"queue_size"`
	PingSeconds int `toml:"ping_seconds"`
}

// envelope is the JSON frame exchanged with devices
type envelope struct {
	ID      string        `json:"id,omitempty"`
	Type    string        `json:"type"`
	Payload watch.Payload `json:"payload,omitempty"`
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan envelope
	ctx    context.Context
	cancel context.CancelFunc
}

// Hub fans outbound notifications out to every connected device and
// delivers inbound frames to subscribers. It implements watch.Gateway.
type Hub struct {
	upgrader     websocket.Upgrader
	queueSize    int
	pingInterval time.Duration

	mu       sync.RWMutex
	clients  map[string]*client
	handlers []func(watch.InboundMessage)
}

// NewHub creates a hub
func NewHub(cfg Config) *Hub {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.PingSeconds <= 0 {
		cfg.PingSeconds = DefaultPingSeconds
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // devices do not send an Origin we could check
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		queueSize:    cfg.QueueSize,
		pingInterval: time.Duration(cfg.PingSeconds) * time.Second,
		clients:      make(map[string]*client),
	}
}

// Subscribe registers fn for inbound device messages
func (h *Hub) Subscribe(fn func(watch.InboundMessage)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, fn)
}

// Send queues msg for every connected device. It never blocks; a device
// whose queue is full misses the message.
func (h *Hub) Send(msg watch.NotificationMessage) error {
	frame := envelope{
		ID:      uuid.NewString(),
		Type:    string(msg.Kind),
		Payload: msg.Payload,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return ErrNoDevice
	}
	for _, c := range h.clients {
		select {
		case c.send <- frame:
		default:
			log.Printf("[gateway] queue full for %s, dropping %s", c.id, frame.Type)
		}
	}
	return nil
}

// Clients returns the number of connected devices
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every device
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		c.cancel()
		c.conn.Close()
		delete(h.clients, id)
	}
}

// ServeHTTP upgrades the request to a websocket and serves the device
// until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] Failed to upgrade to websocket: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		id:     uuid.NewString(),
		conn:   conn,
		send:   make(chan envelope, h.queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Printf("[gateway] device %s connected from %s", c.id, r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		c.cancel()
		c.conn.Close()
		log.Printf("[gateway] device %s disconnected", c.id)
	}()

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop is the only goroutine writing to the connection
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
				log.Printf("[gateway] write to %s failed: %v", c.id, err)
				c.cancel()
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[gateway] Ping failed: %v", err)
				c.cancel()
				c.conn.Close()
				return
			}
		}
	}
}

func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[gateway] WebSocket error: %v", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
		h.dispatch(decodeInbound(data))
	}
}

// decodeInbound never fails: frames that are not valid envelopes become
// messages without a kind.
func decodeInbound(data []byte) watch.InboundMessage {
	var frame envelope
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Printf("[gateway] undecodable frame: %v", err)
		return watch.InboundMessage{}
	}
	return watch.InboundMessage{Kind: watch.MessageKind(frame.Type), Payload: frame.Payload}
}

func (h *Hub) dispatch(msg watch.InboundMessage) {
	h.mu.RLock()
	handlers := make([]func(watch.InboundMessage), len(h.handlers))
	copy(handlers, h.handlers)
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(msg)
	}
}

var _ watch.Gateway = (*Hub)(nil)
