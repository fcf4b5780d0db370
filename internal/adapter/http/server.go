package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/mapview"
	"github.com/couchcryptid/quake-map/internal/web"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MapSource is the map the server renders. *mapview.Map implements it.
type MapSource interface {
	View(state *mapview.LayerState) mapview.View
	DefaultState() *mapview.LayerState
	Legend() domain.Legend
}

// Server serves the map page, its JSON API, and the health, readiness and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	maps       MapSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, API and operational routes.
func NewServer(addr string, maps MapSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		maps:   maps,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	state, err := s.layerState(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := web.RenderPage(&buf, s.maps.View(state)); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	state, err := s.layerState(r.URL.Query())
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.maps.View(state))
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.maps.Legend())
}

// layerState applies ?base=, ?hide= and ?show= to the default layer state.
// hide and show may repeat; show wins when a name appears in both.
func (s *Server) layerState(q url.Values) (*mapview.LayerState, error) {
	state := s.maps.DefaultState()
	if state == nil {
		if q.Has("base") || q.Has("hide") || q.Has("show") {
			return nil, fmt.Errorf("%w: map has no layer control", mapview.ErrUnknownLayer)
		}
		return nil, nil
	}

	if base := q.Get("base"); base != "" {
		if err := state.SelectBase(base); err != nil {
			return nil, err
		}
	}
	for _, name := range q["hide"] {
		if err := state.SetOverlay(name, false); err != nil {
			return nil, err
		}
	}
	for _, name := range q["show"] {
		if err := state.SetOverlay(name, true); err != nil {
			return nil, err
		}
	}
	return state, nil
}

