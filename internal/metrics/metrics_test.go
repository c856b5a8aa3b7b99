package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStep(t *testing.T) {
	before := testutil.ToFloat64(stepsTotal.WithLabelValues("success"))
	ObserveStep(true, time.Millisecond, 41)
	if got := testutil.ToFloat64(stepsTotal.WithLabelValues("success")); got != before+1 {
		t.Errorf("success steps = %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(remainingBudget); got != 41 {
		t.Errorf("remaining = %f, want 41", got)
	}
}

func TestObserveResultsAndErrors(t *testing.T) {
	ObserveResults(80, 50)
	if got := testutil.ToFloat64(lastRunSuccesses.WithLabelValues("thompson")); got != 80 {
		t.Errorf("thompson = %f, want 80", got)
	}
	before := testutil.ToFloat64(operationErrors.WithLabelValues("step", "invalid_state"))
	ObserveError("step", "invalid_state")
	if got := testutil.ToFloat64(operationErrors.WithLabelValues("step", "invalid_state")); got != before+1 {
		t.Errorf("errors = %f, want %f", got, before+1)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveRunEvent("initialized", 300)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "storm_run_events_total") {
		t.Error("expected storm_run_events_total in exposition")
	}
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "409"))
	ObserveRequest("POST", 409)
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "409")); got != before+1 {
		t.Errorf("requests = %f, want %f", got, before+1)
	}
}
