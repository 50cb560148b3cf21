package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"presenter/agent/internal/api"
	"presenter/agent/internal/config"
	"presenter/agent/internal/deck"
	"presenter/agent/internal/gateway"
	"presenter/agent/internal/health"
	"presenter/agent/internal/livews"
	"presenter/agent/internal/narrator"
	"presenter/agent/internal/question"
	"presenter/agent/internal/relay"
	"presenter/agent/internal/session"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.Gemini.APIKey == "" {
		log.Printf("warning: GEMINI_API_KEY not set; model calls will fail and fallbacks will be served")
	}

	ctx := context.Background()
	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second

	talkLLM, err := gateway.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, timeout)
	if err != nil {
		log.Fatalf("gateway client: %v", err)
	}
	deckLLM, err := gateway.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.DeckModel, timeout)
	if err != nil {
		log.Fatalf("gateway deck client: %v", err)
	}

	d := deck.NewStore()
	if cfg.Presenter.DeckFile != "" {
		if err := d.LoadFile(cfg.Presenter.DeckFile); err != nil {
			log.Fatalf("deck file: %v", err)
		}
	}

	sess := session.New()
	rel := relay.New()

	h := api.NewHandlers(cfg, d, sess, narrator.New(d, talkLLM), question.New(d, talkLLM), deckLLM, rel)
	live := livews.NewServer(d, sess, rel)

	mux := http.NewServeMux()
	mux.Handle("/", api.NewRouter(h))
	mux.HandleFunc("/ws", live.HandleWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.Handler(cfg))

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutdown signal received; stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("server starting on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Println("server error:", err)
		os.Exit(1)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
