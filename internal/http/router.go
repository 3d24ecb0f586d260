// Package httpapi serves the live stream, the FHIR view and the analytics endpoints.
package httpapi

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"wisefido-sedentary/internal/consumer"
	"wisefido-sedentary/internal/metrics"
	"wisefido-sedentary/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// LogStore reads persisted events.
type LogStore interface {
	Latest(ctx context.Context) (*models.SedentaryLog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.SedentaryLog, error)
}

// SummaryStore reads daily summaries.
type SummaryStore interface {
	List(ctx context.Context, days int) ([]models.ActivitySummary, error)
}

// FeatureSource computes signal features over the live window.
type FeatureSource interface {
	Features() (models.SignalFeatures, int)
}

// LiveStreamer streams events to one observer until it disconnects.
type LiveStreamer interface {
	Stream(ctx context.Context, sender consumer.Sender) error
}

// ConnectionChecker reports whether an upstream transport is connected.
type ConnectionChecker interface {
	IsConnected() bool
}

// Handlers holds the dependencies of every route.
// MQTT and StaticDir are optional.
type Handlers struct {
	Logs      LogStore
	Summaries SummaryStore
	Features  FeatureSource
	Live      LiveStreamer
	MQTT      ConnectionChecker
	StaticDir string
	Logger    *zap.Logger
}

// NewRouter registers all routes.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument)

	r.HandleFunc("/ws", h.serveWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/api/fhir/observation/latest", h.latestObservation).Methods(http.MethodGet)
	r.HandleFunc("/api/analytics/features", h.features).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", h.summary).Methods(http.MethodGet)
	r.HandleFunc("/api/export/sedentary-log.xlsx", h.exportSedentaryLog).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// dashboard assets, registered last so API routes win
	if h.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(h.StaticDir))).Methods(http.MethodGet)
	}
	return r
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	if h.MQTT != nil {
		if h.MQTT.IsConnected() {
			body["mqtt"] = "connected"
		} else {
			body["status"] = "degraded"
			body["mqtt"] = "disconnected"
		}
	}
	writeJSON(w, http.StatusOK, body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrade through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (h *Handlers) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}
