package question

import (
	"context"
	"fmt"
	"log"
	"strings"

	"presenter/agent/internal/deck"
	"presenter/agent/internal/gateway"
)

const system = `You are an AI presentation assistant answering audience questions mid-presentation.
Answer naturally and thoroughly, speaking directly to your listener.`

const (
	noAnswerFallback  = "I'm not sure how to answer that. Let me continue with the presentation."
	apologyFallback   = "I'm sorry, I had trouble answering that question. Let me continue with the presentation."
	navigatedFallback = "Let's look at the slide that covers this."
)

const navigateTool = "go_to_slide"

// Answer is the routed response to one audience question. TargetSlide is
// always within the deck's bounds.
type Answer struct {
	Response     string `json:"response"`
	TargetSlide  int    `json:"target_slide"`
	SlideChanged bool   `json:"slide_changed"`
}

// Router answers free-form questions, letting the model pick a relevant
// slide via a navigation tool call. A degraded gateway never aborts the
// session: every failure path yields a fixed response with no navigation.
type Router struct {
	deck *deck.Store
	llm  gateway.Completer
}

func New(d *deck.Store, llm gateway.Completer) *Router {
	return &Router{deck: d, llm: llm}
}

func (r *Router) Answer(ctx context.Context, q string, current int) Answer {
	count := r.deck.Count()
	current = clamp(current, count)
	out := Answer{Response: noAnswerFallback, TargetSlide: current}

	tools := []gateway.Tool{{
		Name:        navigateTool,
		Description: "Navigate to the slide most relevant to the question. Use this before answering whenever the question relates to a different slide than the current one.",
		Params: []gateway.Param{{
			Name:        "slide_number",
			Type:        "integer",
			Description: fmt.Sprintf("The slide number to navigate to (1-%d)", count),
			Required:    true,
		}},
	}}

	res, err := r.llm.Complete(ctx, system, r.buildPrompt(q, current, count), tools)
	if err != nil {
		log.Printf("question: answer failed: %v", err)
		out.Response = apologyFallback
		return out
	}

	if res.Call != nil && res.Call.Name == navigateTool {
		if n, ok := res.Call.IntArg("slide_number"); ok {
			target := clamp(n, count)
			out.TargetSlide = target
			out.SlideChanged = target != current
			metricNavigations.Inc()
		}
		out.Response = res.Text
		if strings.TrimSpace(out.Response) == "" {
			out.Response = navigatedFallback
		}
		return out
	}

	if strings.TrimSpace(res.Text) != "" {
		out.Response = res.Text
	}
	return out
}

func (r *Router) buildPrompt(q string, current, count int) string {
	return fmt.Sprintf(`You are presenting a deck about %q. There are %d slides; you are currently on slide %d.

%s

The listener asks: %q

If the question is tied to a different slide, call %s with that slide number before answering. Then answer the question directly and thoroughly in 100-125 words, speaking to "you" rather than "the audience".`,
		r.deck.Topic(), count, current, r.deck.ContextSummary(), q, navigateTool)
}

func clamp(n, count int) int {
	if count < 1 {
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > count {
		return count
	}
	return n
}
