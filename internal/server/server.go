// Package server exposes the live rescue simulation over HTTP/JSON and pushes
// every state change to websocket subscribers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rescue_ai/internal/config"
	"rescue_ai/internal/rescue"
)

var ErrNoSimulation = errors.New("no simulation: generate a grid first")

// Server owns the single live simulation. All access goes through mu, which
// also serializes concurrent tick requests.
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	hub      *Hub
	upgrader websocket.Upgrader

	mu  sync.Mutex
	sim *rescue.Simulation
}

func New(cfg *config.Config, log *slog.Logger) *Server {
	s := &Server{cfg: cfg, log: log, hub: NewHub(log)}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	allow := s.cfg.Server.AllowOrigin
	return allow == "*" || r.Header.Get("Origin") == "" || r.Header.Get("Origin") == allow
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate_grid", s.handleGenerate)
	mux.HandleFunc("POST /move", s.handleMove)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /ws", s.serveWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return s.withCORS(s.withLogging(mux))
}

// ListenAndServe runs the hub and the HTTP server until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("rescue service listening", "addr", s.cfg.Server.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerate(r.Body)
	if err != nil {
		s.fail(w, err)
		return
	}
	sim, err := rescue.BuildGrid(req.params(), s.cfg)
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.cfg.Sim.LogEvents {
		sim.Emit = s.logEvent
	}

	s.mu.Lock()
	s.sim = sim
	v := sim.View()
	s.mu.Unlock()

	s.log.Info("grid generated",
		"sim", sim.ID, "seed", sim.Seed,
		"agents", req.NumAgents, "survivors", req.NumSurvivors, "obstacles", req.NumObstacles)
	s.publish(EventGenerated, v)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	req, err := decodeMove(r.Body)
	if err != nil {
		s.fail(w, err)
		return
	}

	s.mu.Lock()
	if s.sim == nil {
		s.mu.Unlock()
		s.fail(w, ErrNoSimulation)
		return
	}
	rep, err := s.sim.Tick(req.Order)
	if err != nil {
		s.mu.Unlock()
		s.fail(w, err)
		return
	}
	v := s.sim.View()
	s.mu.Unlock()

	s.log.Info("tick",
		"sim", v.ID, "tick", rep.Tick, "moved", len(rep.Moved),
		"pickups", rep.Count(rescue.EventPickup), "dropoffs", rep.Count(rescue.EventDropoff),
		"survivors_left", len(v.Grid.Survivors), "all_completed", v.AllCompleted)
	s.publish(EventTick, v)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.sim == nil {
		s.mu.Unlock()
		s.fail(w, ErrNoSimulation)
		return
	}
	v := s.sim.View()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) publish(typ string, v rescue.View) {
	msg, err := envelope(typ, v)
	if err != nil {
		s.log.Error("encode ws update", "err", err)
		return
	}
	s.hub.Broadcast(msg)
}

func (s *Server) logEvent(ev rescue.Event) {
	s.log.Debug("agent event", "tick", ev.Tick, "agent", ev.Agent, "type", ev.Type, "cell", ev.Cell.String())
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var verr *rescue.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, ErrNoSimulation):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		s.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
