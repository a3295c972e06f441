package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RequestStarted(t *testing.T) {
	m := New("gateway")

	done := m.RequestStarted(http.MethodGet, "GET /order")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsActive.WithLabelValues(http.MethodGet, "GET /order")))

	done(http.StatusInternalServerError)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.requestsActive.WithLabelValues(http.MethodGet, "GET /order")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDurations, "gateway_http_request_duration_seconds"))
}

func TestMetrics_InstrumentTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := New("gateway")
	client := &http.Client{Transport: m.InstrumentTransport(http.DefaultTransport)}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.outboundRequests.WithLabelValues("get", "204")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("gateway")
	m.RequestStarted(http.MethodPost, "POST /neworder")(http.StatusOK)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `gateway_http_request_duration_seconds_count{code="200",method="POST",route="POST /neworder"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
