// Package metrics holds the Prometheus collectors of the tracker service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame read results.
const (
	FrameOK        = "ok"
	FrameNotFrame  = "not_frame"
	FrameMalformed = "malformed"
)

var (
	FramesRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sedentary_frames_read_total",
		Help: "Lines read from the frame source by parse result",
	}, []string{"result"})

	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sedentary_events_published_total",
		Help: "Processed events published to the hub",
	})

	SourceReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sedentary_source_reconnects_total",
		Help: "Times the frame source stream ended and was reopened",
	})

	CachePushErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sedentary_cache_push_errors_total",
		Help: "Failed pushes to the reconnect cache",
	})

	PersistenceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sedentary_persistence_errors_total",
		Help: "Events that could not be written to sedentary_log",
	})

	StreamPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sedentary_stream_publish_errors_total",
		Help: "Events that could not be appended to the export stream",
	})

	HubDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sedentary_hub_dropped_total",
		Help: "Events dropped from lagging subscriber queues",
	}, []string{"consumer"})

	LiveSinks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sedentary_live_sinks",
		Help: "Connected live observers",
	})

	SedentaryTimer = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sedentary_timer_seconds",
		Help: "Current sedentary timer",
	})

	AlertActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sedentary_alert_active",
		Help: "1 while the sedentary alert is raised",
	})

	AlertNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sedentary_alert_notifications_total",
		Help: "Alert webhook deliveries by result",
	}, []string{"result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sedentary_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sedentary_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveEvent updates the timer and alert gauges.
func ObserveEvent(timer uint64, alert bool) {
	SedentaryTimer.Set(float64(timer))
	if alert {
		AlertActive.Set(1)
	} else {
		AlertActive.Set(0)
	}
}
