package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grandstay", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "grandstay", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	BookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grandstay", Name: "booking_events_total", Help: "Booking lifecycle outcomes."},
		[]string{"operation", "outcome"}, // operation: apply|update|create|delete; outcome: ok|validation|not_found|capacity|conflict|forbidden|error
	)
	ReconcileSweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grandstay", Name: "reconcile_sweeps_total", Help: "Room status reconciliation sweeps."},
		[]string{"outcome"}, // ok|error
	)
	ReconcileTransitions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "grandstay", Name: "reconcile_transitions_total", Help: "Room status transitions applied by sweeps."},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "grandstay", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

// Serve starts the standalone metrics listener when METRICS_ADDR is set.
func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, BookingEvents, ReconcileSweeps, ReconcileTransitions, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveBooking(operation, outcome string) {
	BookingEvents.WithLabelValues(operation, outcome).Inc()
}

func ObserveSweep(transitions int, err error) {
	if err != nil {
		ReconcileSweeps.WithLabelValues("error").Inc()
		return
	}
	ReconcileSweeps.WithLabelValues("ok").Inc()
	ReconcileTransitions.Add(float64(transitions))
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
