package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/signspeak/internal/metrics"
	"github.com/ayusman/signspeak/internal/translator"
)

// clientBuffer is how many frame results may queue for one slow client before
// newer ones are dropped for it.
const clientBuffer = 16

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LiveHandler pushes every frame result to connected WebSocket clients.
type LiveHandler struct {
	clients map[*liveClient]bool
	mu      sync.RWMutex
	metrics *metrics.Metrics
	log     *logrus.Entry
	closed  bool
}

// NewLiveHandler creates a LiveHandler. m may be nil.
func NewLiveHandler(m *metrics.Metrics) *LiveHandler {
	return &LiveHandler{
		clients: make(map[*liveClient]bool),
		metrics: m,
		log:     logrus.WithField("component", "server.live"),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &liveClient{conn: conn, send: make(chan []byte, clientBuffer)}
	if !h.add(c) {
		conn.Close()
		return
	}
	defer h.remove(c)

	go h.writeLoop(c)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *LiveHandler) add(c *liveClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = true
	if h.metrics != nil {
		h.metrics.Clients.Add(1)
	}
	return true
}

func (h *LiveHandler) remove(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.Clients.Add(-1)
	}
}

// writeLoop is the only writer on the connection.
func (h *LiveHandler) writeLoop(c *liveClient) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.WithError(err).Debug("live client write failed")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Publish sends res to every client. It never blocks on a slow client.
func (h *LiveHandler) Publish(res translator.FrameResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(res)
	if err != nil {
		h.log.WithError(err).Error("failed to encode frame result")
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Debug("dropping frame result for slow client")
		}
	}
}

// Clients returns the number of connected clients.
func (h *LiveHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *LiveHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		if h.metrics != nil {
			h.metrics.Clients.Add(-1)
		}
	}
}
