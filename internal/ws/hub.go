package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/posadmin/reports-gateway/pkg/debounce"
)

// Event is the wire format for dashboard push messages.
type Event struct {
	Type    string `json:"type"`
	Scope   string `json:"scope,omitempty"`
	Payload string `json:"payload,omitempty"`
}

const (
	// EventRefresh tells connected dashboards a report scope is stale.
	EventRefresh = "report_refresh"
	// EventSearchCommit echoes a settled search query back to the client
	// after the debounce window closes.
	EventSearchCommit = "search_commit"
)

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte

	log   *zap.SugaredLogger
	mutex sync.Mutex
}

func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Infow("ws client connected", "clients", h.clientCount())

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// NotifyRefresh broadcasts a staleness signal for one report scope, e.g.
// "settings" after a threshold change or "all" after a backend restore.
func (h *Hub) NotifyRefresh(scope string) {
	msg, err := json.Marshal(Event{Type: EventRefresh, Scope: scope})
	if err != nil {
		return
	}
	h.Broadcast <- msg
}

// send writes one event to a single connection under the hub mutex, which
// also serializes against broadcast writes.
func (h *Hub) send(conn *websocket.Conn, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	conn.WriteMessage(websocket.TextMessage, msg)
}

func (h *Hub) clientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Serve returns the per-connection handler. Search frames from the client
// are debounced so a typing burst settles into one committed query, which
// is echoed back as a search_commit event.
func Serve(hub *Hub, searchInterval time.Duration) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		deb := debounce.New(searchInterval, nil, func(query string) {
			hub.send(c, Event{Type: EventSearchCommit, Payload: query})
		})
		defer deb.Flush()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var ev Event
			if err := json.Unmarshal(raw, &ev); err != nil {
				continue
			}
			switch ev.Type {
			case "search":
				if ev.Payload == "" {
					deb.Clear()
				} else {
					deb.Input(ev.Payload)
				}
			case "search_sync":
				// External query change, buffer without re-firing.
				deb.Sync(ev.Payload)
			}
		}
	}
}
