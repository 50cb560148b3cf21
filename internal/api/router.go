package api

import (
	"net/http"
	"strconv"
	"strings"
)

func NewRouter(h *Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HandleHealth(w, r)
	})

	mux.HandleFunc("/api/topic", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.HandleSetTopic(w, r)
		case http.MethodGet:
			h.HandleGetTopic(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/slides", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HandleListSlides(w, r)
	})

	mux.HandleFunc("/api/slides/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := trailingID(r.URL.Path, "/api/slides/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.HandleGetSlide(w, r, id)
	})

	mux.HandleFunc("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HandleReset(w, r)
	})

	mux.HandleFunc("/api/present/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		// /api/present/start | /next | /slide/{id}
		rest := strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, "/"), "/api/present/")
		switch {
		case rest == "start":
			h.HandlePresentStart(w, r)
		case rest == "next":
			h.HandlePresentNext(w, r)
		case strings.HasPrefix(rest, "slide/"):
			id, ok := trailingID(rest, "slide/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			h.HandlePresentSlide(w, r, id)
		default:
			http.NotFound(w, r)
		}
	})

	mux.HandleFunc("/api/question", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.HandleQuestion(w, r)
	})

	return mux
}

// trailingID parses the integer path segment after prefix; false when the
// remainder is missing, non-numeric, or has further segments.
func trailingID(path, prefix string) (int, bool) {
	rest := strings.TrimPrefix(strings.TrimSuffix(path, "/"), prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}
