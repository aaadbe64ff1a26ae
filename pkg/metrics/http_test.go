package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest("/users/login", "POST", 200, 150*time.Millisecond)
	metrics.ObserveRequest("/users/login", "POST", 200, 50*time.Millisecond)
	metrics.ObserveRequest("/users/login", "POST", 401, 20*time.Millisecond)

	ok := metrics.requests.WithLabelValues("/users/login", "POST", "200")
	if got := testutil.ToFloat64(ok); got != 2 {
		t.Fatalf("expected 2 successful requests recorded, got %f", got)
	}
	denied := metrics.requests.WithLabelValues("/users/login", "POST", "401")
	if got := testutil.ToFloat64(denied); got != 1 {
		t.Fatalf("expected 1 rejected request recorded, got %f", got)
	}

	if got := testutil.CollectAndCount(metrics.duration, "http_request_duration_seconds"); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.ObserveRequest("/users/login", "POST", 200, time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("", "", 500, time.Millisecond)
}
