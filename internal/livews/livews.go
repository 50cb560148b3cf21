package livews

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"presenter/agent/internal/deck"
	"presenter/agent/internal/relay"
	"presenter/agent/internal/session"

	ws "nhooyr.io/websocket"
)

// Message is the live-channel frame, both directions.
type Message struct {
	Type         string `json:"type"`
	SlideNumber  int    `json:"slide_number,omitempty"`
	CurrentSlide int    `json:"current_slide,omitempty"`
	IsSpeaking   *bool  `json:"is_speaking,omitempty"`
}

// Server handles one live connection per client: real-time interrupts,
// speaking status and slide updates. Messages on a connection are
// processed strictly in order; connections are independent of each other.
type Server struct {
	Deck  *deck.Store
	Sess  *session.State
	Relay *relay.Relay
}

func NewServer(d *deck.Store, s *session.State, r *relay.Relay) *Server {
	return &Server{Deck: d, Sess: s, Relay: r}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	c, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("ws accept: %v", err)
		return
	}
	id := s.Relay.Register(c)
	log.Printf("live client connected: %s", id)

	ctx := r.Context()
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		if typ != ws.MessageText && typ != ws.MessageBinary {
			continue
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("live client %s: invalid message: %v", id, err)
			continue
		}
		s.handleMessage(ctx, id, msg)
	}
	_ = c.Close(ws.StatusNormalClosure, "done")
	s.Relay.Unregister(id)
	log.Printf("live client disconnected: %s", id)
}

func (s *Server) handleMessage(ctx context.Context, listenerID string, msg Message) {
	switch msg.Type {
	case "interrupt":
		s.Sess.SetSpeaking(false)
		_ = s.Relay.Send(ctx, listenerID, Message{
			Type:         "interrupt_ack",
			CurrentSlide: s.Sess.Current(),
		})

	case "speaking_start":
		s.Sess.SetSpeaking(true)
		s.broadcastSpeaking(ctx, true)

	case "speaking_end":
		s.Sess.SetSpeaking(false)
		s.broadcastSpeaking(ctx, false)

	case "slide_update":
		if !s.Sess.GoTo(msg.SlideNumber, s.Deck.Count()) {
			log.Printf("live client %s: slide_update out of range: %d", listenerID, msg.SlideNumber)
			return
		}
		s.Relay.Broadcast(ctx, Message{Type: "slide_changed", SlideNumber: msg.SlideNumber})

	case "ping":
		_ = s.Relay.Send(ctx, listenerID, Message{Type: "pong"})

	default:
		log.Printf("live client %s: unknown message type %q", listenerID, msg.Type)
	}
}

func (s *Server) broadcastSpeaking(ctx context.Context, speaking bool) {
	s.Relay.Broadcast(ctx, Message{Type: "speaking_status", IsSpeaking: &speaking})
}
