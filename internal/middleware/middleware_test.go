package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/nbtview/internal/logging"
)

func newTestRouter(t *testing.T) (*gin.Engine, *PrometheusMiddleware, *prometheus.Registry, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := logging.NewConsoleLogger("api", &buf)
	reg := prometheus.NewRegistry()
	pm := NewPrometheusMiddleware("test", reg)

	r := gin.New()
	r.Use(NewRequestLogger(logger).Handler(), pm.Handler())
	r.GET("/ok/:id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(TraceIDKey)) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	pm.RegisterMetricsEndpoint(r, reg)
	return r, pm, reg, &buf
}

func TestRequestLogger_TraceID(t *testing.T) {
	r, _, _, buf := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok/1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	traceID := w.Body.String()
	assert.Len(t, traceID, 36)
	assert.Equal(t, traceID, w.Header().Get("X-Trace-Id"))
	assert.Contains(t, buf.String(), "/ok/:id 200")
	assert.Contains(t, buf.String(), traceID)

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Contains(t, buf.String(), "[WARN]")
}

func TestPrometheusMiddleware_Counts(t *testing.T) {
	r, pm, _, _ := newTestRouter(t)

	for _, path := range []string{"/ok/1", "/ok/2", "/fail", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 3, testutil.CollectAndCount(pm.reqDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", "/fail", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(pm.reqInflight))

	for i := 0; i < 100; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/"+strconv.Itoa(i), nil))
	}
	assert.Equal(t, 3, testutil.CollectAndCount(pm.reqDuration))
	assert.Equal(t, 101.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("GET", unmatchedRoute, "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_request_duration_seconds")
}
