package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest("tools/list", true, 0)
	m.RecordRequest("tools/list", true, 0)
	m.RecordRequest("bogus/method", false, -32601)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("tools/list", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unknown", "-32601")))
}

func TestRecordToolCall(t *testing.T) {
	m := New()

	m.RecordToolCall("query_observations_by_team", OutcomeSuccess, 5*time.Millisecond)
	m.RecordToolCall("query_observations_by_team", OutcomeError, time.Millisecond)
	m.RecordToolCall("missing_tool", OutcomeNotFound, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("query_observations_by_team", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("missing_tool", OutcomeNotFound)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.toolDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("initialize", true, 0)
		m.RecordToolCall("x", OutcomeSuccess, time.Second)
		m.RecordCacheLookup(true)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `cassini_mcp_cache_lookups_total{result="hit"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

func TestNewIsolatedRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
