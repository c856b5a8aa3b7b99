// Package metrics exposes Prometheus instruments for the simulation server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// stepsTotal counts completed steps by outcome.
	stepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storm_steps_total",
		Help: "Completed allocation steps by outcome",
	}, []string{"outcome"})

	// stepDuration tracks how long one engine step takes.
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storm_step_duration_seconds",
		Help:    "Engine step duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10), // 1us to ~260ms
	})

	// runEvents counts run lifecycle events.
	runEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storm_run_events_total",
		Help: "Run lifecycle events (initialized, reset, exhausted)",
	}, []string{"event"})

	// remainingBudget reports the current run's remaining budget.
	remainingBudget = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storm_remaining_budget",
		Help: "Resource units left in the current run",
	})

	// lastRunSuccesses reports the final successes per strategy for the most
	// recently exhausted run.
	lastRunSuccesses = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "storm_last_run_successes",
		Help: "Successes of the last exhausted run by strategy",
	}, []string{"strategy"})

	// operationErrors counts rejected operations by operation and kind.
	operationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storm_operation_errors_total",
		Help: "Rejected engine operations by operation and error kind",
	}, []string{"op", "kind"})
)

// ObserveStep records one completed step.
func ObserveStep(success bool, took time.Duration, remaining int) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	stepsTotal.WithLabelValues(outcome).Inc()
	stepDuration.Observe(took.Seconds())
	remainingBudget.Set(float64(remaining))
}

// ObserveRunEvent records a lifecycle event and the budget it left behind.
func ObserveRunEvent(event string, remaining int) {
	runEvents.WithLabelValues(event).Inc()
	remainingBudget.Set(float64(remaining))
}

// ObserveResults records the final comparison of an exhausted run.
func ObserveResults(thompson, uniform int) {
	lastRunSuccesses.WithLabelValues("thompson").Set(float64(thompson))
	lastRunSuccesses.WithLabelValues("uniform").Set(float64(uniform))
}

// ObserveError records a rejected operation.
func ObserveError(op, kind string) {
	operationErrors.WithLabelValues(op, kind).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storm_http_requests_total",
	Help: "HTTP requests by method and status code",
}, []string{"method", "code"})

// ObserveRequest records one served HTTP request.
func ObserveRequest(method string, status int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
