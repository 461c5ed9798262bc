package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayMetrics_RecordTransaction(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)

	m.RecordTransaction("purchase", "success", 120*time.Millisecond)
	m.RecordTransaction("purchase", "success", 80*time.Millisecond)
	m.RecordTransaction("purchase", "failure", 50*time.Millisecond)
	m.RecordTransaction("refund", "error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transactionsTotal.WithLabelValues("purchase", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactionsTotal.WithLabelValues("purchase", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactionsTotal.WithLabelValues("refund", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.transactionsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestNewGatewayMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewGatewayMetrics(reg)

	assert.Panics(t, func() { NewGatewayMetrics(reg) })
}

func TestHealthChecker(t *testing.T) {
	h := NewHealthChecker()
	h.Register("credentials", func(ctx context.Context) error { return nil })

	status := h.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Checks["credentials"])

	h.Register("secrets", func(ctx context.Context) error { return errors.New("sealed") })
	status = h.Check(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "unhealthy: sealed", status.Checks["secrets"])
}

func TestMetricsHandler(t *testing.T) {
	h := NewHealthChecker()
	h.Register("secrets", func(ctx context.Context) error { return errors.New("sealed") })
	handler := NewMetricsHandler(h)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
