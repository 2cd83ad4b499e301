package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/log"

	"github.com/nirman-app/nirman/model"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Hub fans table change notifications out to websocket subscribers.
// A subscriber names one table on connect and receives every
// insert/update/delete on it; the transport's own policy applies for
// reconnects, the hub keeps no session state.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]struct{}
	stop     func()
}

type client struct {
	table string
	conn  *websocket.Conn
	send  chan model.Event
}

// NewHub create an empty hub
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: map[*client]struct{}{},
	}
}

// Bind pipe every change event of the store into the hub. Call Close
// to release the subscription.
func (hub *Hub) Bind(store *model.Store) {
	events, cancel := store.Subscribe("", 64)
	hub.stop = cancel
	go func() {
		for event := range events {
			hub.Broadcast(event)
		}
	}()
}

// Close release the store subscription and disconnect the clients
func (hub *Hub) Close() {
	if hub.stop != nil {
		hub.stop()
		hub.stop = nil
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for c := range hub.clients {
		close(c.send)
		delete(hub.clients, c)
	}
}

// Count the number of connected subscribers
func (hub *Hub) Count() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

// Broadcast deliver one event to every subscriber of its table.
// Subscribers that stopped draining are dropped, not waited on.
func (hub *Hub) Broadcast(event model.Event) {
	hub.mu.RLock()
	stale := []*client{}
	for c := range hub.clients {
		if c.table != "" && c.table != event.Table {
			continue
		}
		select {
		case c.send <- event:
		default:
			stale = append(stale, c)
		}
	}
	hub.mu.RUnlock()

	for _, c := range stale {
		hub.unregister(c)
		log.Warn("[realtime] dropped a %s subscriber, send buffer full", c.table)
	}
}

// Serve upgrade one HTTP request to a websocket subscription on the
// given table. Blocks until the peer disconnects.
func (hub *Hub) Serve(w http.ResponseWriter, r *http.Request, table string) error {
	conn, err := hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{table: table, conn: conn, send: make(chan model.Event, sendBuffer)}
	hub.mu.Lock()
	hub.clients[c] = struct{}{}
	hub.mu.Unlock()

	go hub.writePump(c)
	hub.readPump(c)
	return nil
}

func (hub *Hub) unregister(c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, has := hub.clients[c]; has {
		delete(hub.clients, c)
		close(c.send)
	}
}

// readPump discard inbound frames, the channel is push-only. Returns
// when the peer closes the connection.
func (hub *Hub) readPump(c *client) {
	defer func() {
		hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (hub *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			message, err := jsoniter.Marshal(event)
			if err != nil {
				log.Error("[realtime] marshal event: %s", err.Error())
				continue
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
