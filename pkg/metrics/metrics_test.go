package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/tasks/1", "/tasks/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP taskboard_http_requests_total Total number of HTTP requests
# TYPE taskboard_http_requests_total counter
taskboard_http_requests_total{method="GET",route="/tasks/:id",status="204"} 2
taskboard_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.HTTPRequestsTotal, strings.NewReader(expected)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestBusinessCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Registration()
	m.Login(true)
	m.Login(false)
	m.Login(false)
	m.AuthRejected("expired")
	m.TaskCreated()
	m.TaskDeleted()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthRejectedTotal.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TasksDeletedTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Registration()
		m.Login(false)
		m.AuthRejected("invalid")
		m.TaskCreated()
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.TaskCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taskboard_tasks_created_total 1")
}
