package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsCollector(reg)

	m.RecordDecision("review", "auto_rejected", 0.85)
	m.RecordDecision("review", "auto_rejected", 0.9)
	m.RecordDecision("message", "auto_approved", 0.1)
	m.RecordResolution("approved", "bulk", 3)
	m.RecordNotification("delivered")
	m.RecordCacheOperation("stats", true)
	m.RecordCacheOperation("stats", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.moderationDecisions.WithLabelValues("review", "auto_rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.moderationDecisions.WithLabelValues("message", "auto_approved")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.moderationResolutions.WithLabelValues("approved", "bulk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsTotal.WithLabelValues("delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("stats")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMissesTotal.WithLabelValues("stats")))
}

func TestTrackRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsCollector(reg)
	mw := NewMetricsMiddleware(m)

	done := mw.TrackRequest("GET", "/content-moderation/:id")
	time.Sleep(time.Millisecond)
	done(404, 128)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/content-moderation/:id", "4xx")))
}

func TestGetStatusCategory(t *testing.T) {
	tests := map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 400: "4xx", 503: "5xx", 100: "unknown"}
	for status, want := range tests {
		assert.Equal(t, want, getStatusCategory(status))
	}
}
