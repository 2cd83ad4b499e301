package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/nirman-app/nirman/model"
)

func newTestServer(hub *Hub) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		table := strings.TrimPrefix(r.URL.Path, "/ws/")
		hub.Serve(w, r, table)
	}))
}

func dial(t *testing.T, server *httptest.Server, table string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + table
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients", want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastToTableSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := newTestServer(hub)
	defer server.Close()

	plans := dial(t, server, "plans")
	defer plans.Close()
	projects := dial(t, server, "projects")
	defer projects.Close()
	waitForClients(t, hub, 2)

	hub.Broadcast(model.Event{Table: "plans", Op: model.OpInsert, Row: map[string]interface{}{"plan_id": "pln-1"}})

	plans.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := plans.ReadMessage()
	assert.Nil(t, err)

	event := model.Event{}
	assert.Nil(t, jsoniter.Unmarshal(message, &event))
	assert.Equal(t, "plans", event.Table)
	assert.Equal(t, model.OpInsert, event.Op)
	assert.Equal(t, "pln-1", event.Row["plan_id"])

	// the projects subscriber sees nothing
	projects.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = projects.ReadMessage()
	assert.NotNil(t, err)
}

func TestUnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := newTestServer(hub)
	defer server.Close()

	conn := dial(t, server, "plans")
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// broadcasting into an empty hub is a no-op
	hub.Broadcast(model.Event{Table: "plans", Op: model.OpDelete, Row: map[string]interface{}{}})
}

func TestEveryEventKindIsDelivered(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := newTestServer(hub)
	defer server.Close()

	conn := dial(t, server, "plans")
	defer conn.Close()
	waitForClients(t, hub, 1)

	for _, op := range []string{model.OpInsert, model.OpUpdate, model.OpDelete} {
		hub.Broadcast(model.Event{Table: "plans", Op: op, Row: map[string]interface{}{}})
	}

	for _, want := range []string{model.OpInsert, model.OpUpdate, model.OpDelete} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := conn.ReadMessage()
		assert.Nil(t, err)
		event := model.Event{}
		assert.Nil(t, jsoniter.Unmarshal(message, &event))
		assert.Equal(t, want, event.Op)
	}
}
