package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"presenter/agent/internal/deck"
	"presenter/agent/internal/gateway"
)

type stubLLM struct {
	text       string
	err        error
	lastPrompt string
}

func (s *stubLLM) Complete(ctx context.Context, system, prompt string, tools []gateway.Tool) (gateway.Result, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return gateway.Result{}, s.err
	}
	return gateway.Result{Text: s.text}, nil
}

func deckOf(n int) *deck.Store {
	st := deck.NewStore()
	slides := make([]deck.Slide, n)
	for i := range slides {
		slides[i] = deck.Slide{Title: fmt.Sprintf("Topic %d", i+1), Content: []string{"a", "b"}, SpeakerNotes: "notes"}
	}
	st.SetDeck("machine learning", slides)
	return st
}

func TestNarratePagination(t *testing.T) {
	e := New(deckOf(6), &stubLLM{text: "spoken text"})

	n := e.Narrate(context.Background(), 1)
	if n.Text != "spoken text" || !n.HasNext || n.NextSlide == nil || *n.NextSlide != 2 {
		t.Fatalf("slide 1 narration wrong: %+v", n)
	}

	n = e.Narrate(context.Background(), 6)
	if n.HasNext || n.NextSlide != nil {
		t.Fatalf("last slide should have no next: %+v", n)
	}
	if n.CurrentSlide != 6 {
		t.Fatalf("current slide wrong: %+v", n)
	}
}

func TestNarrateSlideNotFound(t *testing.T) {
	e := New(deckOf(6), &stubLLM{text: "unused"})
	for _, id := range []int{0, 7, -3} {
		n := e.Narrate(context.Background(), id)
		if n.Text != "Slide not found." || n.HasNext {
			t.Fatalf("id %d: expected not-found narration, got %+v", id, n)
		}
	}
}

func TestNarrateFallbackOnGatewayError(t *testing.T) {
	llm := &stubLLM{err: &gateway.GatewayError{Op: "generate", Err: errors.New("rate limited")}}
	e := New(deckOf(6), llm)
	n := e.Narrate(context.Background(), 3)
	if n.Text != "Let me tell you about Topic 3." {
		t.Fatalf("expected fallback narration, got %q", n.Text)
	}
	if !n.HasNext || *n.NextSlide != 4 {
		t.Fatalf("fallback must keep pagination: %+v", n)
	}
}

func TestNarrateFallbackOnEmptyText(t *testing.T) {
	e := New(deckOf(2), &stubLLM{text: "   "})
	n := e.Narrate(context.Background(), 2)
	if n.Text != "Let me tell you about Topic 2." {
		t.Fatalf("expected fallback narration, got %q", n.Text)
	}
}

func TestPromptFraming(t *testing.T) {
	llm := &stubLLM{text: "x"}
	e := New(deckOf(3), llm)

	e.Narrate(context.Background(), 1)
	if !strings.Contains(llm.lastPrompt, "opening slide") || !strings.Contains(llm.lastPrompt, "machine learning") {
		t.Fatalf("slide 1 prompt missing opening framing:\n%s", llm.lastPrompt)
	}

	e.Narrate(context.Background(), 2)
	if !strings.Contains(llm.lastPrompt, "Present this slide thoroughly") {
		t.Fatalf("interior prompt missing neutral framing:\n%s", llm.lastPrompt)
	}

	e.Narrate(context.Background(), 3)
	if !strings.Contains(llm.lastPrompt, "final slide") {
		t.Fatalf("last prompt missing closing framing:\n%s", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "- a\n") || !strings.Contains(llm.lastPrompt, "Speaker Notes: notes") {
		t.Fatalf("prompt should embed bullets and notes verbatim:\n%s", llm.lastPrompt)
	}
}
