package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	RegistrationsTotal prometheus.Counter
	LoginsTotal        *prometheus.CounterVec
	AuthRejectedTotal  *prometheus.CounterVec
	TasksCreatedTotal  prometheus.Counter
	TasksDeletedTotal  prometheus.Counter
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RegistrationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "taskboard_registrations_total",
				Help: "Total number of registered accounts",
			},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		AuthRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_auth_rejected_total",
				Help: "Requests rejected by the auth gate, by reason",
			},
			[]string{"reason"},
		),
		TasksCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "taskboard_tasks_created_total",
				Help: "Total number of created tasks",
			},
		),
		TasksDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "taskboard_tasks_deleted_total",
				Help: "Total number of deleted tasks",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RegistrationsTotal,
		m.LoginsTotal,
		m.AuthRejectedTotal,
		m.TasksCreatedTotal,
		m.TasksDeletedTotal,
	)
	return m
}

func (m *Metrics) Registration() {
	if m != nil {
		m.RegistrationsTotal.Inc()
	}
}

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AuthRejected(reason string) {
	if m != nil {
		m.AuthRejectedTotal.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) TaskCreated() {
	if m != nil {
		m.TasksCreatedTotal.Inc()
	}
}

func (m *Metrics) TaskDeleted() {
	if m != nil {
		m.TasksDeletedTotal.Inc()
	}
}

// Middleware records count and latency per matched route. Unmatched paths are
// folded into one label to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
