package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordShellCommand("ls", false, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ShellCommands.WithLabelValues("ls", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ShellCommands.WithLabelValues("ls", "success")))
}

func TestRecordSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordSnapshot("save", time.Millisecond, nil)
	m.RecordSnapshot("save", time.Millisecond, errors.New("disk full"))
	m.RecordSnapshot("load", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotOps.WithLabelValues("save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotOps.WithLabelValues("save", "error")))
	assert.Equal(t, int64(1), m.Summary().SnapshotFailures)
}

func TestGauges(t *testing.T) {
	m := NewMetrics()

	m.SetSessionsActive(3)
	m.IncWSConnections()
	m.IncWSConnections()
	m.DecWSConnections()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.SessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnections))

	s := m.Summary()
	assert.Equal(t, int64(3), s.ActiveSessions)
	assert.Equal(t, int64(1), s.ActiveConnections)
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "filesystem.read").Stop(false)
	NewTimer(m, "filesystem.read").Stop(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("filesystem.read", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("filesystem.read", "error")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := NewMetrics()
	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/shell/:session", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/shell/a", "/shell/b", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/shell/:session", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	s := m.Summary()
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(1), s.TotalErrors)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "webos_http_requests_total")
	assert.Contains(t, rec.Body.String(), "webos_uptime_seconds")
}
