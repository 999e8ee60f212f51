package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GPAComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gpa_computations_total",
		Help: "GPA computations by kind (overview, sgpa, cgpa, transcript)",
	}, []string{"kind"})

	StudySecondsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "study_seconds_recorded_total",
		Help: "Seconds of study time recorded",
	})

	MaintenanceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_runs_total",
		Help: "Maintenance job runs by outcome",
	}, []string{"outcome"})
)
