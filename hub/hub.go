package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event types
const (
	EventReservationCreated   = "reservation_created"
	EventReservationUpdated   = "reservation_updated"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationStatus    = "reservation_status"
	EventTableCreated         = "table_created"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a client may fall behind before it is
	// dropped.
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	subject string
	send    chan []byte
}

// Hub holds the connected floor board clients (hosts, managers) and fans
// messages out to all of them. Each client has its own writer goroutine, so
// a slow board never holds up the request that triggered the broadcast.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
	logger  logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		logger:  logger,
	}
}

// RegisterClient adds conn to the broadcast set and starts its writer.
func (h *Hub) RegisterClient(conn *websocket.Conn, subject string) {
	c := &client{subject: subject, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	h.logger.WithField("subject", subject).Info("board client connected")
	go h.writePump(conn, c)
}

// UnregisterClient removes conn and closes it.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

// remove must be called with the mutex held.
func (h *Hub) remove(conn *websocket.Conn) {
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
		h.logger.WithField("subject", c.subject).Info("board client disconnected")
	}
	conn.Close()
}

func (h *Hub) writePump(conn *websocket.Conn, c *client) {
	for data := range c.send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.WithError(err).WithField("subject", c.subject).Warn("dropping board client")
			h.UnregisterClient(conn)
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// BroadcastMessage queues msg for every client without waiting on the
// network. A client whose queue is full is dropped.
func (h *Hub) BroadcastMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).WithField("event", msg.Event).Error("marshal board message")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.logger.WithFields(logrus.Fields{
		"event":   msg.Event,
		"clients": len(h.clients),
	}).Debug("broadcasting board message")

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.WithField("subject", c.subject).Warn("board client too slow, dropping")
			h.remove(conn)
		}
	}
}

func (h *Hub) Broadcast(event string, data interface{}) {
	h.BroadcastMessage(Message{Event: event, Data: data})
}
