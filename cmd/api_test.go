package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CameronXie/order-gateway/internal/config"
	"github.com/CameronXie/order-gateway/internal/metrics"
	"github.com/CameronXie/order-gateway/internal/tracing"
)

// zipkinCollector records span batches posted to /api/v2/spans.
type zipkinCollector struct {
	mu    sync.Mutex
	spans []map[string]any
}

func (c *zipkinCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var batch []map[string]any
	_ = json.NewDecoder(r.Body).Decode(&batch)

	c.mu.Lock()
	c.spans = append(c.spans, batch...)
	c.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (c *zipkinCollector) recorded() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.spans
}

func newTestConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()

	cfg, err := config.Load(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	require.NoError(t, err)

	return cfg
}

func storeHostPort(t *testing.T, server *httptest.Server) (string, string) {
	t.Helper()

	hostPort := strings.TrimPrefix(server.URL, "http://")
	host, port, ok := strings.Cut(hostPort, ":")
	require.True(t, ok)

	return host, port
}

func TestNewHandler_TracesOutboundCalls(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/state/statestore/order", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Traceparent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"orderId":"abc"}`))
	}))
	defer store.Close()

	collector := &zipkinCollector{}
	zipkin := httptest.NewServer(collector)
	defer zipkin.Close()

	host, port := storeHostPort(t, store)
	cfg := newTestConfig(t, map[string]string{
		config.StateHostEnv:      host,
		config.DaprHTTPPortEnv:   port,
		config.ZipkinEndpointEnv: zipkin.URL + "/api/v2/spans",
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tracer, err := tracing.NewProvider(tracing.Config{
		Enabled:           true,
		ServiceName:       cfg.ServiceName,
		RemoteServiceName: cfg.StateStoreName,
		ZipkinEndpoint:    cfg.ZipkinEndpoint,
	}, logger)
	require.NoError(t, err)

	handler := newHandler(cfg, tracer, metrics.New(MetricsNamespace), logger)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/order", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"orderId":"abc"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	require.NoError(t, tracer.Shutdown(context.Background()))

	spans := collector.recorded()
	require.Len(t, spans, 2)

	kinds := make([]string, 0, len(spans))
	for _, span := range spans {
		kinds = append(kinds, span["kind"].(string))
		endpoint := span["localEndpoint"].(map[string]any)
		assert.Equal(t, "nodeapp", endpoint["serviceName"])
	}
	assert.ElementsMatch(t, []string{"SERVER", "CLIENT"}, kinds)
}

func TestNewHandler_WithoutTracing(t *testing.T) {
	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Traceparent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer store.Close()

	host, port := storeHostPort(t, store)
	cfg := newTestConfig(t, map[string]string{
		config.StateHostEnv:      host,
		config.DaprHTTPPortEnv:   port,
		config.TracingEnabledEnv: "false",
	})

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tracer, err := tracing.NewProvider(tracing.Config{Enabled: false}, logger)
	require.NoError(t, err)

	m := metrics.New(MetricsNamespace)
	handler := newHandler(cfg, tracer, m, logger)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/neworder", strings.NewReader(`{"data":{"orderId":"1"}}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `order_gateway_state_store_requests_total{code="204",method="post"} 1`)
	assert.Contains(t, w.Body.String(), `route="POST /neworder"`)
}
