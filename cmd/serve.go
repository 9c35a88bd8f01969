package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexupport/alexupport/internal/agent"
)

var servePort int

// session confines one conversation to one orchestrator. The mutex serializes
// turns: the pipeline is synchronous per conversation and the history is not
// safe for concurrent mutation.
type session struct {
	mu    sync.Mutex
	agent *agent.Agent
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

// get returns the session for id, creating one (and an id, if empty) on first
// use.
func (r *sessionRegistry) get(id string, newAgent func() *agent.Agent) (string, *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		id = uuid.New().String()
	}
	s, ok := r.sessions[id]
	if !ok {
		s = &session{agent: newAgent()}
		r.sessions[id] = s
	}
	return id, s
}

// newAPIRouter assembles the HTTP surface over a per-session agent factory.
func newAPIRouter(newAgent func() *agent.Agent, registry *sessionRegistry, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/products", func(w http.ResponseWriter, req *http.Request) {
		reqCtx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		products, err := newAgent().ListProducts(reqCtx, 500)
		if err != nil {
			zap.L().Error("list products failed", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "index unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	})

	r.Post("/v1/ask", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Question  string `json:"question"`
			ASIN      string `json:"asin"`
			SessionID string `json:"session_id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Question == "" || body.ASIN == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question and asin are required"})
			return
		}

		id, s := registry.get(body.SessionID, newAgent)

		reqCtx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		// One turn at a time per session.
		s.mu.Lock()
		answer := s.agent.Answer(reqCtx, body.Question, body.ASIN)
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]string{
			"session_id": id,
			"answer":     answer,
		})
	})

	return r
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAgentEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		timeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
		handler := newAPIRouter(env.NewAgent, newSessionRegistry(), timeout)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: handler,
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
