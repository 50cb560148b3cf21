package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"presenter/agent/internal/gateway"
)

var (
	// ErrEmptyGeneration means the model returned no text at all.
	ErrEmptyGeneration = errors.New("deck: empty generation response")
	// ErrBadFormat means the model's text was not a usable slide array.
	ErrBadFormat = errors.New("deck: generated slides are not valid JSON")
)

const generateSystem = `You are an expert presentation creator. Generate clear, well-structured presentation slides.
Always respond with valid JSON only, no markdown or extra text.`

// Generate asks the model for exactly n slides on the topic and installs
// them as the current deck. On any failure the held deck is unchanged.
func (s *Store) Generate(ctx context.Context, llm gateway.Completer, topic string, n int) ([]Slide, error) {
	prompt := buildGeneratePrompt(topic, n)

	res, err := llm.Complete(ctx, generateSystem, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("deck: generate slides: %w", err)
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, ErrEmptyGeneration
	}

	slides, err := parseSlides(res.Text)
	if err != nil {
		return nil, err
	}

	s.SetDeck(topic, slides)
	log.Printf("deck: generated %d slides for topic %q", len(slides), topic)
	return s.Slides(), nil
}

func buildGeneratePrompt(topic string, n int) string {
	return fmt.Sprintf(`Create a %d-slide presentation about: %q

This is for a 1:1 presentation (presenter speaking directly to one person).

Generate exactly %d slides with this JSON structure:
[
  {
    "id": 1,
    "title": "Slide Title",
    "content": ["Point 1", "Point 2", "Point 3", "Point 4"],
    "speaker_notes": "Detailed notes for the presenter about what to say for this slide (2-3 sentences)"
  }
]

Requirements:
- Slide 1: Introduction to the topic
- Slides 2-%d: Core content with 3-5 bullet points each
- Slide %d: Summary and wrap-up
- Make content clear and educational
- Speaker notes should be conversational and personal (speaking to "you" not "audience")

Return ONLY the JSON array, no other text.`, n, topic, n, n-1, n)
}

// parseSlides strips an optional markdown code fence and decodes the
// slide array.
func parseSlides(text string) ([]Slide, error) {
	cleaned := stripCodeFence(text)
	var slides []Slide
	if err := json.Unmarshal([]byte(cleaned), &slides); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if slides == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrBadFormat)
	}
	return slides, nil
}

func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```json") {
		t = t[len("```json"):]
	} else if strings.HasPrefix(t, "```") {
		t = t[len("```"):]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

// LoadFile preloads a static deck from a JSON file at startup. The file
// holds either a bare slide array or a {topic, slides} object.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("deck: read %s: %w", path, err)
	}
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil || len(d.Slides) == 0 {
		var slides []Slide
		if err := json.Unmarshal(data, &slides); err != nil {
			return fmt.Errorf("deck: parse %s: %w", path, err)
		}
		d = Deck{Topic: "", Slides: slides}
	}
	s.SetDeck(d.Topic, d.Slides)
	log.Printf("deck: preloaded %d slides from %s", s.Count(), path)
	return nil
}
