package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestObserveRecordsSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/products", "200", 150*time.Millisecond)
	m.Observe("POST", "/api/v1/checkout", "201", 300*time.Millisecond)
	m.Observe("", "", "", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	require.True(t, names["http_request_duration_seconds"])
	require.True(t, names["http_requests_total"])
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/x", "200", time.Second)

	empty := NewHTTPMetrics(nil)
	empty.Observe("GET", "/x", "200", time.Second)
}
