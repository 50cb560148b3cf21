package relay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	ws "nhooyr.io/websocket"
)

type fakeConn struct {
	fail bool
	got  [][]byte
}

func (f *fakeConn) Write(ctx context.Context, typ ws.MessageType, p []byte) error {
	if f.fail {
		return errors.New("connection closed")
	}
	f.got = append(f.got, p)
	return nil
}

func TestBroadcastSurvivesFailingListener(t *testing.T) {
	r := New()
	bad := &fakeConn{fail: true}
	good := &fakeConn{}
	r.Register(bad)
	r.Register(good)

	r.Broadcast(context.Background(), map[string]any{"type": "slide_changed", "slide_number": 3})

	if len(good.got) != 1 {
		t.Fatalf("healthy listener should receive the event, got %d messages", len(good.got))
	}
	var msg map[string]any
	if err := json.Unmarshal(good.got[0], &msg); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if msg["type"] != "slide_changed" {
		t.Fatalf("wrong payload: %v", msg)
	}
}

func TestRegisterUnregister(t *testing.T) {
	r := New()
	a := r.Register(&fakeConn{})
	b := r.Register(&fakeConn{})
	if r.Len() != 2 {
		t.Fatalf("expected 2 listeners, got %d", r.Len())
	}
	r.Unregister(a)
	r.Unregister(a) // double unregister is harmless
	if r.Len() != 1 {
		t.Fatalf("expected 1 listener, got %d", r.Len())
	}
	r.Unregister(b)
	if r.Len() != 0 {
		t.Fatalf("expected 0 listeners, got %d", r.Len())
	}
}

func TestSendTargetsOneListener(t *testing.T) {
	r := New()
	a := &fakeConn{}
	b := &fakeConn{}
	idA := r.Register(a)
	r.Register(b)

	if err := r.Send(context.Background(), idA, map[string]string{"type": "pong"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(a.got) != 1 || len(b.got) != 0 {
		t.Fatalf("send leaked: a=%d b=%d", len(a.got), len(b.got))
	}
}

func TestSendUnknownListenerIsNoop(t *testing.T) {
	r := New()
	if err := r.Send(context.Background(), "missing", map[string]string{"type": "pong"}); err != nil {
		t.Fatalf("send to unknown listener should be a no-op, got %v", err)
	}
}
