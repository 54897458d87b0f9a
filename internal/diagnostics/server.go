// Package diagnostics exposes the session's health, Prometheus metrics,
// and a live telemetry feed over plain HTTP, separate from the MAVLink
// link itself. This is an operator-facing surface, not part of the
// protocol core.
package diagnostics

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rubenCodeforges/ardudeck-sub002/internal/events"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/metrics"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/middleware"
	"github.com/rubenCodeforges/ardudeck-sub002/internal/session"
)

// Server hosts /healthz, /metrics, and a /ws telemetry feed.
type Server struct {
	sess    *session.Session
	bus     *events.Bus
	metrics *metrics.Registry
	logger  *log.Logger

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New builds a diagnostics HTTP server bound to addr, with CORS
// restricted to corsOrigins and panics recovered per-request.
func New(addr string, corsOrigins []string, sess *session.Session, bus *events.Bus, m *metrics.Registry, logger *log.Logger) *Server {
	s := &Server{
		sess:    sess,
		bus:     bus,
		metrics: m,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // CORS middleware already gates this
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/ws/telemetry", s.handleTelemetryWS)

	handler := middleware.Recovery(logger)(middleware.CORS(corsOrigins)(mux))
	// h2c lets a local debugging client (e.g. grpcurl-style tooling) speak
	// HTTP/2 to this plain diagnostic surface without TLS.
	h2Handler := h2c.NewHandler(handler, &http2.Server{})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           h2Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server immediately via http.Server.Close,
// closing open connections without waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.httpServer.Close()
}

type healthResponse struct {
	State string `json:"state"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{State: s.sess.State().String()})
}

// handleTelemetryWS streams TelemetryUpdated and ConnectionStateChanged
// events to a connected client as JSON frames until it disconnects.
func (s *Server) handleTelemetryWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("diagnostics: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sub, ch := s.bus.Subscribe(32)
	defer s.bus.Unsubscribe(sub)

	for ev := range ch {
		switch e := ev.(type) {
		case events.TelemetryUpdated:
			if err := conn.WriteJSON(map[string]any{"type": "telemetry", "data": e.Snapshot}); err != nil {
				return
			}
		case events.ConnectionStateChanged:
			if err := conn.WriteJSON(map[string]any{"type": "connection_state", "to": e.To.String()}); err != nil {
				return
			}
		}
	}
}
