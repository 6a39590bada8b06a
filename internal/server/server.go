// Package server exposes snapshots, live samples and metrics over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zenithax-cc/hwlens/internal/monitor"
	"github.com/zenithax-cc/hwlens/pkg/collector"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
)

const (
	writeWait       = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// SnapshotFunc returns the current hardware snapshot. A non-nil snapshot
// with an error is a partial result.
type SnapshotFunc func(ctx context.Context) (*collector.Snapshot, error)

type Server struct {
	log        *zap.Logger
	monitor    *monitor.Monitor
	snapshot   SnapshotFunc
	classifier func() *cpuclass.Classifier

	registry *prometheus.Registry
	metrics  *metrics
	router   *mux.Router
	upgrader websocket.Upgrader
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Device string    `json:"device"`
	Values []float64 `json:"values"`
}

type classifyResponse struct {
	Brand string `json:"brand"`
	cpuclass.Descriptor
	Label string `json:"label"`
}

func New(log *zap.Logger, mon *monitor.Monitor, snapshot SnapshotFunc, classifier func() *cpuclass.Classifier) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if classifier == nil {
		classifier = func() *cpuclass.Classifier { return nil }
	}

	reg := prometheus.NewRegistry()
	s := &Server{
		log:        log,
		monitor:    mon,
		snapshot:   snapshot,
		classifier: classifier,
		registry:   reg,
		metrics:    newMetrics(reg),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.healthHandler).Methods("GET")
	r.HandleFunc("/api/snapshot", s.snapshotHandler).Methods("GET")
	r.HandleFunc("/api/sample", s.sampleHandler).Methods("GET")
	r.HandleFunc("/api/history/{device}", s.historyHandler).Methods("GET")
	r.HandleFunc("/api/classify", s.classifyHandler).Methods("GET")
	r.Handle("/metrics", s.metricsHandler()).Methods("GET")
	r.HandleFunc("/ws", s.websocketHandler)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. Samples from the monitor feed the Prometheus gauges meanwhile.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.trackSamples(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}

func (s *Server) trackSamples(ctx context.Context) {
	if s.monitor == nil {
		return
	}

	samples, unsubscribe := s.monitor.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case sample, ok := <-samples:
			if !ok {
				return
			}
			s.metrics.observeSample(sample)
		}
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if snap == nil {
		msg := "no snapshot available"
		if err != nil {
			msg = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msg})
		return
	}

	if err != nil {
		s.log.Warn("partial snapshot", zap.Error(err))
	}

	s.metrics.observeSnapshot(snap)
	writeJSON(w, http.StatusOK, snap)
}

// metricsHandler refreshes the CPU info gauge from the snapshot before each
// scrape, so it is exported without a prior /api/snapshot call.
func (s *Server) metricsHandler() http.Handler {
	h := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.snapshot != nil {
			snap, err := s.snapshot(r.Context())
			if err != nil {
				s.log.Debug("snapshot for metrics", zap.Error(err))
			}
			s.metrics.observeSnapshot(snap)
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) sampleHandler(w http.ResponseWriter, _ *http.Request) {
	if s.monitor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "monitor disabled"})
		return
	}

	sample, ok := s.monitor.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no sample yet"})
		return
	}

	writeJSON(w, http.StatusOK, sample)
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	device := mux.Vars(r)["device"]

	if s.monitor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "monitor disabled"})
		return
	}

	values, err := s.monitor.History(device)
	if err != nil {
		if errors.Is(err, monitor.ErrUnknownDevice) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{Device: device, Values: values})
}

func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	if strings.TrimSpace(brand) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing brand query parameter"})
		return
	}

	d := s.classifier().Classify(brand)
	writeJSON(w, http.StatusOK, classifyResponse{
		Brand:      brand,
		Descriptor: d,
		Label:      d.Label(),
	})
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	if s.monitor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "monitor disabled"})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	samples, unsubscribe := s.monitor.Subscribe()
	defer unsubscribe()

	// The client never sends anything meaningful; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if sample, ok := s.monitor.Latest(); ok {
		if err := s.writeSample(conn, sample); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case sample, ok := <-samples:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "monitor stopped"),
					time.Now().Add(writeWait))
				return
			}
			if err := s.writeSample(conn, sample); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) writeSample(conn *websocket.Conn, sample monitor.Sample) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(sample)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
