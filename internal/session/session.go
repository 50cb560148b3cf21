package session

import "sync"

// Snapshot is a point-in-time copy of the live presentation state.
type Snapshot struct {
	CurrentSlide int  `json:"current_slide"`
	IsPresenting bool `json:"is_presenting"`
	IsSpeaking   bool `json:"is_speaking"`
}

// State is the single process-wide presentation session. All mutation is
// funneled through the mutex; there is deliberately no per-request
// isolation (one shared session).
type State struct {
	mu         sync.Mutex
	current    int
	presenting bool
	speaking   bool
}

func New() *State { return &State{current: 1} }

// Reset returns the session to slide 1 with all flags cleared.
func (s *State) Reset() {
	s.mu.Lock()
	s.current = 1
	s.presenting = false
	s.speaking = false
	s.mu.Unlock()
}

func (s *State) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{CurrentSlide: s.current, IsPresenting: s.presenting, IsSpeaking: s.speaking}
}

// StartPresenting moves to slide 1 and marks the presentation live.
func (s *State) StartPresenting() {
	s.mu.Lock()
	s.current = 1
	s.presenting = true
	s.mu.Unlock()
}

// Advance moves to the next slide. When already on the last slide it
// reports done=true and leaves the current slide untouched; the caller
// substitutes the closing narration.
func (s *State) Advance(count int) (next int, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next = s.current + 1
	if next > count {
		return s.current, true
	}
	s.current = next
	return next, false
}

// GoTo jumps to the given slide. Out-of-range ids are a no-op and report
// false; the caller decides how to surface that.
func (s *State) GoTo(id, count int) bool {
	if id < 1 || id > count {
		return false
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return true
}

func (s *State) SetSpeaking(speaking bool) {
	s.mu.Lock()
	s.speaking = speaking
	s.mu.Unlock()
}

func (s *State) SetPresenting(presenting bool) {
	s.mu.Lock()
	s.presenting = presenting
	s.mu.Unlock()
}
