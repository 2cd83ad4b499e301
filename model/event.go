package model

import (
	"sync"

	"github.com/yaoapp/kun/log"
)

// Change operations, mirrored in the realtime channel payloads
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Event a change notification for one table row
type Event struct {
	Table string                 `json:"table"`
	Op    string                 `json:"op"`
	Row   map[string]interface{} `json:"row"`
}

type subscriber struct {
	table string // empty means all tables
	ch    chan Event
}

type dispatcher struct {
	mu   sync.RWMutex
	next uint64
	subs map[uint64]*subscriber
}

func newDispatcher() *dispatcher {
	return &dispatcher{subs: map[uint64]*subscriber{}}
}

// Subscribe register a change listener for one table. An empty table name
// receives every event. The returned function unregisters the listener and
// closes the channel.
func (store *Store) Subscribe(table string, buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}

	d := store.events
	d.mu.Lock()
	id := d.next
	d.next++
	sub := &subscriber{table: table, ch: make(chan Event, buffer)}
	d.subs[id] = sub
	d.mu.Unlock()

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if s, has := d.subs[id]; has {
			delete(d.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// dispatch fan out one event. Slow subscribers are skipped instead of
// blocking the write path.
func (store *Store) dispatch(table string, op string, row map[string]interface{}) {
	event := Event{Table: table, Op: op, Row: row}
	d := store.events
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sub := range d.subs {
		if sub.table != "" && sub.table != table {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			log.Warn("[model] %s %s event dropped, subscriber is not draining", table, op)
		}
	}
}
