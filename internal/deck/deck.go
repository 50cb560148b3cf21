package deck

import (
	"fmt"
	"strings"
	"sync"
)

// Slide ids are 1-indexed and dense: within one deck they are always
// exactly 1..N, renumbered at install time regardless of what the model
// put in the payload.
type Slide struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	SpeakerNotes string   `json:"speaker_notes"`
}

type Deck struct {
	Topic  string  `json:"topic"`
	Slides []Slide `json:"slides"`
}

// Store owns the current deck. The deck is replaced wholesale under the
// write lock; readers see either the old deck in full or the new one.
type Store struct {
	mu   sync.RWMutex
	deck Deck
}

func NewStore() *Store { return &Store{} }

// SetDeck installs a deck atomically, renumbering slide ids 1..N.
func (s *Store) SetDeck(topic string, slides []Slide) {
	installed := make([]Slide, len(slides))
	copy(installed, slides)
	for i := range installed {
		installed[i].ID = i + 1
	}
	s.mu.Lock()
	s.deck = Deck{Topic: topic, Slides: installed}
	s.mu.Unlock()
}

func (s *Store) Slides() []Slide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Slide, len(s.deck.Slides))
	copy(out, s.deck.Slides)
	return out
}

// Slide returns the slide with the given 1-indexed id, or ok=false when
// the id is outside [1, N] or no deck exists.
func (s *Store) Slide(id int) (Slide, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 1 || id > len(s.deck.Slides) {
		return Slide{}, false
	}
	return s.deck.Slides[id-1], true
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deck.Slides)
}

func (s *Store) Topic() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deck.Topic
}

func (s *Store) HasDeck() bool { return s.Count() > 0 }

// ContextSummary renders every slide's title and bullets as grounding
// text for generation prompts.
func (s *Store) ContextSummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.deck.Slides) == 0 {
		return "No slides available."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Presentation topic: %s\n", s.deck.Topic)
	b.WriteString("Presentation slides:\n")
	for _, sl := range s.deck.Slides {
		fmt.Fprintf(&b, "\nSlide %d: %s\n", sl.ID, sl.Title)
		for _, point := range sl.Content {
			fmt.Fprintf(&b, "  - %s\n", point)
		}
	}
	return b.String()
}
