package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"presenter/agent/internal/config"
	"presenter/agent/internal/deck"
	"presenter/agent/internal/gateway"
	"presenter/agent/internal/narrator"
	"presenter/agent/internal/question"
	"presenter/agent/internal/relay"
	"presenter/agent/internal/session"
)

const closingNarration = "That brings us to the end of the presentation. Thank you for your time today! If you have any questions about what we covered, feel free to ask."

type Handlers struct {
	cfg     config.Config
	deck    *deck.Store
	sess    *session.State
	eng     *narrator.Engine
	qa      *question.Router
	deckLLM gateway.Completer
	relay   *relay.Relay
}

func NewHandlers(cfg config.Config, d *deck.Store, s *session.State, eng *narrator.Engine, qa *question.Router, deckLLM gateway.Completer, rel *relay.Relay) *Handlers {
	return &Handlers{cfg: cfg, deck: d, sess: s, eng: eng, qa: qa, deckLLM: deckLLM, relay: rel}
}

type topicRequest struct {
	Topic     string `json:"topic"`
	NumSlides int    `json:"num_slides"`
}

type questionRequest struct {
	Question     string `json:"question"`
	CurrentSlide int    `json:"current_slide"`
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"agent":  h.cfg.Presenter.AgentName,
	})
}

// HandleSetTopic generates a fresh deck for the topic and resets the
// session. The held deck is untouched when generation fails.
func (h *Handlers) HandleSetTopic(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		http.Error(w, "topic cannot be empty", http.StatusBadRequest)
		return
	}
	n := req.NumSlides
	if n <= 0 {
		n = h.cfg.Presenter.DefaultSlides
	}
	if n > h.cfg.Presenter.MaxSlides {
		n = h.cfg.Presenter.MaxSlides
	}

	log.Printf("generating %d slides for topic: %s", n, topic)
	slides, err := h.deck.Generate(r.Context(), h.deckLLM, topic, n)
	if err != nil {
		log.Printf("slide generation failed: %v", err)
		http.Error(w, "failed to generate slides: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.sess.Reset()

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"topic":  topic,
		"slides": slides,
		"total":  len(slides),
	})
}

func (h *Handlers) HandleGetTopic(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"topic":      h.deck.Topic(),
		"has_slides": h.deck.HasDeck(),
	})
}

func (h *Handlers) HandleListSlides(w http.ResponseWriter, r *http.Request) {
	slides := h.deck.Slides()
	writeJSON(w, http.StatusOK, map[string]any{
		"slides": slides,
		"total":  len(slides),
	})
}

func (h *Handlers) HandleGetSlide(w http.ResponseWriter, r *http.Request, id int) {
	sl, ok := h.deck.Slide(id)
	if !ok {
		http.Error(w, "slide not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sl)
}

func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.sess.Reset()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "reset",
		"current_slide": 1,
	})
}

func (h *Handlers) HandlePresentStart(w http.ResponseWriter, r *http.Request) {
	if !h.deck.HasDeck() {
		http.Error(w, "no slides available; set a topic first using POST /api/topic", http.StatusBadRequest)
		return
	}
	h.sess.StartPresenting()
	writeJSON(w, http.StatusOK, h.eng.Narrate(r.Context(), 1))
}

func (h *Handlers) HandlePresentSlide(w http.ResponseWriter, r *http.Request, id int) {
	if !h.sess.GoTo(id, h.deck.Count()) {
		http.Error(w, "slide not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.eng.Narrate(r.Context(), id))
}

// HandlePresentNext advances the session; past the last slide it returns
// the fixed closing narration and stays put.
func (h *Handlers) HandlePresentNext(w http.ResponseWriter, r *http.Request) {
	next, done := h.sess.Advance(h.deck.Count())
	if done {
		writeJSON(w, http.StatusOK, narrator.Narration{
			Text:         closingNarration,
			CurrentSlide: h.sess.Current(),
			HasNext:      false,
		})
		return
	}
	writeJSON(w, http.StatusOK, h.eng.Narrate(r.Context(), next))
}

// HandleQuestion routes an audience question: the model may navigate to
// the most relevant slide, and the session follows the routed target.
func (h *Handlers) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	q := strings.TrimSpace(req.Question)
	if q == "" {
		http.Error(w, "question cannot be empty", http.StatusBadRequest)
		return
	}
	current := req.CurrentSlide
	if current <= 0 {
		current = h.sess.Current()
	}
	log.Printf("audience question: %s", q)

	ans := h.qa.Answer(r.Context(), q, current)
	if h.sess.GoTo(ans.TargetSlide, h.deck.Count()) && ans.SlideChanged {
		h.relay.Broadcast(r.Context(), map[string]any{
			"type":         "slide_changed",
			"slide_number": ans.TargetSlide,
		})
	}
	writeJSON(w, http.StatusOK, ans)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		log.Printf("write response: %v", err)
	}
}
