package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	ws "nhooyr.io/websocket"
)

// Conn is the slice of nhooyr's *websocket.Conn the relay needs; tests
// substitute fakes.
type Conn interface {
	Write(ctx context.Context, typ ws.MessageType, p []byte) error
}

// Relay fans presentation events out to every live listener. A failed
// send to one listener (closed connection, slow peer) is swallowed so the
// rest still get the event.
type Relay struct {
	mu    sync.Mutex
	conns map[string]Conn
}

func New() *Relay { return &Relay{conns: make(map[string]Conn)} }

// Register adds a listener and returns its handle for Unregister.
func (r *Relay) Register(c Conn) string {
	id := uuid.New().String()
	r.mu.Lock()
	r.conns[id] = c
	r.mu.Unlock()
	metricListeners.Inc()
	return id
}

func (r *Relay) Unregister(id string) {
	r.mu.Lock()
	_, ok := r.conns[id]
	delete(r.conns, id)
	r.mu.Unlock()
	if ok {
		metricListeners.Dec()
	}
}

func (r *Relay) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Broadcast sends the event to a snapshot of the current listeners, so
// register/unregister stay safe during delivery.
func (r *Relay) Broadcast(ctx context.Context, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	r.mu.Lock()
	snapshot := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		snapshot = append(snapshot, c)
	}
	r.mu.Unlock()

	for _, c := range snapshot {
		if err := c.Write(ctx, ws.MessageText, payload); err != nil {
			metricDroppedSends.Inc()
		}
	}
}

// Send delivers an event to a single listener.
func (r *Relay) Send(ctx context.Context, id string, event any) error {
	r.mu.Lock()
	c := r.conns[id]
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.Write(ctx, ws.MessageText, payload)
}
