package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	outcomes        *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpRequestTime *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicle_booking",
			Subsystem: "orchestration",
			Name:      "outcomes_total",
			Help:      "Booking orchestration runs by outcome",
		}, []string{"outcome"}),
		gatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vehicle_booking",
			Subsystem: "gateway",
			Name:      "call_duration_seconds",
			Help:      "Latency of downstream service calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"gateway", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicle_booking",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Inbound HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vehicle_booking",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of inbound HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomes, m.gatewayLatency, m.httpRequests, m.httpRequestTime)
	return m
}

func (m *BookingMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveGatewayCall(gateway, result string, seconds float64) {
	if m == nil {
		return
	}
	m.gatewayLatency.WithLabelValues(gateway, result).Observe(seconds)
}

// Middleware records every request under its chi route pattern so ids don't explode label cardinality.
func (m *BookingMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpRequestTime.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
