package metrics

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes recorded by BookingAttempts
const (
	BookingCreated  = "created"
	BookingConflict = "conflict"
	BookingInvalid  = "invalid"
	BookingNotFound = "not_found"
	BookingError    = "error"
)

type Metrics struct {
	registry        *prometheus.Registry
	bookingAttempts *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		bookingAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Appointment booking attempts by outcome.",
		}, []string{"result"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

func (m *Metrics) RecordBooking(result string) {
	m.bookingAttempts.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes request latency labelled by the mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		snoop := httpsnoop.CaptureMetrics(next, w, r)
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(snoop.Code)).
			Observe(snoop.Duration.Seconds())
	})
}
