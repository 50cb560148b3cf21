package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"presenter/agent/internal/config"
	"presenter/agent/internal/deck"
	"presenter/agent/internal/gateway"
	"presenter/agent/internal/narrator"
	"presenter/agent/internal/question"
	"presenter/agent/internal/relay"
	"presenter/agent/internal/session"
)

type stubLLM struct {
	res gateway.Result
	err error
}

func (s *stubLLM) Complete(ctx context.Context, system, prompt string, tools []gateway.Tool) (gateway.Result, error) {
	if s.err != nil {
		return gateway.Result{}, s.err
	}
	return s.res, nil
}

type fixture struct {
	deck *deck.Store
	sess *session.State
	srv  *httptest.Server
}

// newFixture wires the full handler stack over stub completers: talk for
// narration/questions, gen for deck generation.
func newFixture(t *testing.T, slides int, talk, gen gateway.Completer) *fixture {
	t.Helper()
	cfg := config.Load()
	d := deck.NewStore()
	if slides > 0 {
		arr := make([]deck.Slide, slides)
		for i := range arr {
			arr[i] = deck.Slide{Title: fmt.Sprintf("Topic %d", i+1), Content: []string{"a"}}
		}
		d.SetDeck("go", arr)
	}
	s := session.New()
	h := NewHandlers(cfg, d, s, narrator.New(d, talk), question.New(d, talk), gen, relay.New())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return &fixture{deck: d, sess: s, srv: srv}
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("GET %s: decode: %v", url, err)
		}
	}
}

func postJSON(t *testing.T, url string, body any, wantStatus int, out any) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("POST %s: decode: %v", url, err)
		}
	}
}

func TestBlankTopicRejected(t *testing.T) {
	f := newFixture(t, 6, &stubLLM{}, &stubLLM{})
	postJSON(t, f.srv.URL+"/api/topic", map[string]any{"topic": "   "}, http.StatusBadRequest, nil)
	if f.deck.Count() != 6 || f.deck.Topic() != "go" {
		t.Fatalf("rejected topic must not touch the deck")
	}
}

func TestSetTopicGeneratesAndResets(t *testing.T) {
	gen := &stubLLM{res: gateway.Result{Text: `[
		{"id": 9, "title": "Intro", "content": ["a"], "speaker_notes": "n"},
		{"id": 9, "title": "Wrap", "content": ["b"], "speaker_notes": "n"}
	]`}}
	f := newFixture(t, 6, &stubLLM{}, gen)
	f.sess.GoTo(5, 6)

	var out struct {
		Status string       `json:"status"`
		Topic  string       `json:"topic"`
		Slides []deck.Slide `json:"slides"`
		Total  int          `json:"total"`
	}
	postJSON(t, f.srv.URL+"/api/topic", map[string]any{"topic": "databases", "num_slides": 2}, http.StatusOK, &out)

	if out.Status != "success" || out.Total != 2 || out.Topic != "databases" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if out.Slides[0].ID != 1 || out.Slides[1].ID != 2 {
		t.Fatalf("slides not renumbered: %+v", out.Slides)
	}
	if f.sess.Current() != 1 {
		t.Fatalf("session should reset after topic change, got %d", f.sess.Current())
	}
	if f.deck.Topic() != "databases" {
		t.Fatalf("deck not replaced: %q", f.deck.Topic())
	}
}

func TestSetTopicGenerationFailure(t *testing.T) {
	f := newFixture(t, 3, &stubLLM{}, &stubLLM{res: gateway.Result{Text: "not json"}})
	postJSON(t, f.srv.URL+"/api/topic", map[string]any{"topic": "x"}, http.StatusInternalServerError, nil)
	if f.deck.Count() != 3 {
		t.Fatalf("failed generation must leave the deck, got %d slides", f.deck.Count())
	}
}

func TestGetTopicAndSlides(t *testing.T) {
	f := newFixture(t, 6, &stubLLM{}, &stubLLM{})

	var topic struct {
		Topic     string `json:"topic"`
		HasSlides bool   `json:"has_slides"`
	}
	getJSON(t, f.srv.URL+"/api/topic", http.StatusOK, &topic)
	if topic.Topic != "go" || !topic.HasSlides {
		t.Fatalf("topic payload wrong: %+v", topic)
	}

	var list struct {
		Slides []deck.Slide `json:"slides"`
		Total  int          `json:"total"`
	}
	getJSON(t, f.srv.URL+"/api/slides", http.StatusOK, &list)
	if list.Total != 6 || len(list.Slides) != 6 {
		t.Fatalf("slides payload wrong: total=%d", list.Total)
	}

	var sl deck.Slide
	getJSON(t, f.srv.URL+"/api/slides/3", http.StatusOK, &sl)
	if sl.ID != 3 || sl.Title != "Topic 3" {
		t.Fatalf("slide 3 wrong: %+v", sl)
	}

	getJSON(t, f.srv.URL+"/api/slides/7", http.StatusNotFound, nil)
	getJSON(t, f.srv.URL+"/api/slides/0", http.StatusNotFound, nil)
	getJSON(t, f.srv.URL+"/api/slides/abc", http.StatusNotFound, nil)
}

func TestPresentStartWithoutDeck(t *testing.T) {
	f := newFixture(t, 0, &stubLLM{}, &stubLLM{})
	getJSON(t, f.srv.URL+"/api/present/start", http.StatusBadRequest, nil)
}

func TestPresentFlow(t *testing.T) {
	f := newFixture(t, 2, &stubLLM{res: gateway.Result{Text: "narrated"}}, &stubLLM{})

	var n narrator.Narration
	getJSON(t, f.srv.URL+"/api/present/start", http.StatusOK, &n)
	if n.Text != "narrated" || n.CurrentSlide != 1 || !n.HasNext || n.NextSlide == nil || *n.NextSlide != 2 {
		t.Fatalf("start narration wrong: %+v", n)
	}
	if snap := f.sess.Snapshot(); snap.CurrentSlide != 1 || !snap.IsPresenting {
		t.Fatalf("start should mark presenting: %+v", snap)
	}

	getJSON(t, f.srv.URL+"/api/present/next", http.StatusOK, &n)
	if n.CurrentSlide != 2 || n.HasNext {
		t.Fatalf("next narration wrong: %+v", n)
	}

	// Past the last slide: fixed closing text, slide stays put.
	getJSON(t, f.srv.URL+"/api/present/next", http.StatusOK, &n)
	if n.Text != closingNarration || n.HasNext || n.CurrentSlide != 2 {
		t.Fatalf("closing narration wrong: %+v", n)
	}
	if f.sess.Current() != 2 {
		t.Fatalf("terminal next must not move the session, got %d", f.sess.Current())
	}
}

func TestPresentSlideByID(t *testing.T) {
	f := newFixture(t, 6, &stubLLM{res: gateway.Result{Text: "x"}}, &stubLLM{})

	var n narrator.Narration
	getJSON(t, f.srv.URL+"/api/present/slide/4", http.StatusOK, &n)
	if n.CurrentSlide != 4 || f.sess.Current() != 4 {
		t.Fatalf("present slide 4 wrong: %+v current=%d", n, f.sess.Current())
	}

	getJSON(t, f.srv.URL+"/api/present/slide/9", http.StatusNotFound, nil)
	if f.sess.Current() != 4 {
		t.Fatalf("out-of-range present must not move the session")
	}
}

func TestQuestionRoutesSession(t *testing.T) {
	talk := &stubLLM{res: gateway.Result{
		Text: "covered on slide five",
		Call: &gateway.ToolCall{Name: "go_to_slide", Args: map[string]any{"slide_number": 5}},
	}}
	f := newFixture(t, 6, talk, &stubLLM{})

	var ans question.Answer
	postJSON(t, f.srv.URL+"/api/question", map[string]any{"question": "what about X?", "current_slide": 2}, http.StatusOK, &ans)
	if ans.TargetSlide != 5 || !ans.SlideChanged {
		t.Fatalf("answer wrong: %+v", ans)
	}
	if f.sess.Current() != 5 {
		t.Fatalf("session should follow routed slide, got %d", f.sess.Current())
	}
}

func TestBlankQuestionRejected(t *testing.T) {
	f := newFixture(t, 6, &stubLLM{}, &stubLLM{})
	postJSON(t, f.srv.URL+"/api/question", map[string]any{"question": ""}, http.StatusBadRequest, nil)
}

func TestReset(t *testing.T) {
	f := newFixture(t, 6, &stubLLM{}, &stubLLM{})
	f.sess.GoTo(4, 6)

	var out struct {
		Status       string `json:"status"`
		CurrentSlide int    `json:"current_slide"`
	}
	postJSON(t, f.srv.URL+"/api/reset", nil, http.StatusOK, &out)
	if out.Status != "reset" || out.CurrentSlide != 1 || f.sess.Current() != 1 {
		t.Fatalf("reset wrong: %+v current=%d", out, f.sess.Current())
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, 0, &stubLLM{}, &stubLLM{})
	var out struct {
		Status string `json:"status"`
		Agent  string `json:"agent"`
	}
	getJSON(t, f.srv.URL+"/api/health", http.StatusOK, &out)
	if out.Status != "healthy" || out.Agent != "gemini-presentation-agent" {
		t.Fatalf("health payload wrong: %+v", out)
	}
}

func TestTrailingID(t *testing.T) {
	cases := []struct {
		path, prefix string
		id           int
		ok           bool
	}{
		{"/api/slides/3", "/api/slides/", 3, true},
		{"/api/slides/3/", "/api/slides/", 3, true},
		{"/api/slides/", "/api/slides/", 0, false},
		{"/api/slides/abc", "/api/slides/", 0, false},
		{"/api/slides/3/extra", "/api/slides/", 0, false},
	}
	for _, c := range cases {
		id, ok := trailingID(c.path, c.prefix)
		if id != c.id || ok != c.ok {
			t.Fatalf("trailingID(%q) = (%d, %v), want (%d, %v)", c.path, id, ok, c.id, c.ok)
		}
	}
}
