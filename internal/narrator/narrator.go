package narrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"presenter/agent/internal/deck"
	"presenter/agent/internal/gateway"
)

const system = "You are an engaging presentation narrator speaking directly to one person."

const notFoundNarration = "Slide not found."

// Narration is the spoken-style payload for one slide, with pagination.
type Narration struct {
	Text         string `json:"narration"`
	CurrentSlide int    `json:"current_slide"`
	HasNext      bool   `json:"has_next"`
	NextSlide    *int   `json:"next_slide,omitempty"`
}

// Engine turns a slide into narration text through the gateway. It never
// hard-fails: a degraded gateway yields deterministic fallback copy so
// the presentation loop keeps moving.
type Engine struct {
	deck *deck.Store
	llm  gateway.Completer
}

func New(d *deck.Store, llm gateway.Completer) *Engine {
	return &Engine{deck: d, llm: llm}
}

func (e *Engine) Narrate(ctx context.Context, slideID int) Narration {
	sl, ok := e.deck.Slide(slideID)
	if !ok {
		return Narration{Text: notFoundNarration, CurrentSlide: slideID, HasNext: false}
	}

	count := e.deck.Count()
	out := Narration{CurrentSlide: slideID, HasNext: slideID < count}
	if out.HasNext {
		next := slideID + 1
		out.NextSlide = &next
	}

	prompt := buildPrompt(sl, slideID, count, e.deck.Topic())
	res, err := e.llm.Complete(ctx, system, prompt, nil)
	if err != nil {
		log.Printf("narrator: slide %d: %v", slideID, err)
		metricFallbacks.Inc()
		out.Text = fallback(sl)
		return out
	}
	if strings.TrimSpace(res.Text) == "" {
		metricFallbacks.Inc()
		out.Text = fallback(sl)
		return out
	}
	out.Text = res.Text
	return out
}

func fallback(sl deck.Slide) string {
	return fmt.Sprintf("Let me tell you about %s.", sl.Title)
}

// buildPrompt frames the slide by position: the first slide opens the
// presentation, the last one closes it, interior slides present content.
func buildPrompt(sl deck.Slide, slideID, count int, topic string) string {
	var framing string
	switch {
	case slideID == 1:
		framing = fmt.Sprintf("This is the opening slide. Welcome your listener and give a brief overview of the presentation about %q before covering the slide content.", topic)
	case slideID == count:
		framing = "This is the final slide. Summarize the key points, thank your listener for their time, and invite questions."
	default:
		framing = "Present this slide thoroughly, connecting it to the flow of the presentation."
	}

	var bullets strings.Builder
	for _, point := range sl.Content {
		fmt.Fprintf(&bullets, "- %s\n", point)
	}

	return fmt.Sprintf(`Generate the spoken narration for slide %d of %d.

%s

Title: %s
Content:
%s
Speaker Notes: %s

Speak directly to your listener ("you", not "audience"). Keep it conversational, do not read bullet points verbatim, and aim for 75-100 words.`,
		slideID, count, framing, sl.Title, bullets.String(), sl.SpeakerNotes)
}
