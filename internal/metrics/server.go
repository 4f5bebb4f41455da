package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"herald/pkg/logger"
)

// Server exposes /metrics and /healthz.
type Server struct {
	srv       *http.Server
	log       *logger.Logger
	startTime time.Time
	service   string
}

// NewServer creates the metrics HTTP server.
func NewServer(addr string, service string) *Server {
	s := &Server{
		log:       logger.Get().With("component", "metrics_server"),
		startTime: time.Now(),
		service:   service,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() {
	s.log.Infof("Metrics server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Errorf("Metrics server failed: %v", err)
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": s.service,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
	})
}
