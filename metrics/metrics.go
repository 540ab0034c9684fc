// Package metrics exposes Prometheus counters for routing, filtering and face
// verification outcomes.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NoDepartment labels queries that matched no department keyword.
const NoDepartment = "none"

var (
	routedQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankdesk_routed_queries_total",
			Help: "Queries that passed the content filter, by routed department",
		},
		[]string{"department"},
	)
	rejectedQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankdesk_rejected_queries_total",
			Help: "Queries rejected by the content filter, by matched keyword",
		},
		[]string{"keyword"},
	)
	faceVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankdesk_face_verifications_total",
			Help: "Face verification attempts by outcome",
		},
		[]string{"outcome"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bankdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by service, route and status code",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "route", "status"},
	)

	initOnce sync.Once
)

// Init registers the collectors with the default registry.
// Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(routedQueries, rejectedQueries, faceVerifications, requestDuration)
	})
}

func RecordRoute(department string) {
	if department == "" {
		department = NoDepartment
	}
	routedQueries.WithLabelValues(department).Inc()
}

func RecordRejection(keyword string) {
	rejectedQueries.WithLabelValues(keyword).Inc()
}

// RecordFaceVerification counts an outcome: "verified", "mismatch" or "error".
func RecordFaceVerification(outcome string) {
	faceVerifications.WithLabelValues(outcome).Inc()
}

func ObserveRequest(service, route string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(service, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
