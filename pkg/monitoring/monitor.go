package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ThemeProgressCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_theme_updates_total",
			Help: "Student theme progress updates by requested status and outcome",
		},
		[]string{"status", "outcome"},
	)

	OverrideStudentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_override_students_total",
			Help: "Students touched by teacher overrides",
		},
		[]string{"level", "result"},
	)

	AssignmentsClosedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_assignments_closed_total",
			Help: "Content assignments closed automatically after their end date",
		},
	)

	SchedulerRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scheduler_run_duration_seconds",
			Help:    "Duration of activity status scheduler runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notifications created by type",
		},
		[]string{"type"},
	)

	WSOnlineClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_ws_clients",
			Help: "Connected notification websocket clients on this instance",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ThemeProgressCounter,
			OverrideStudentCounter,
			AssignmentsClosedCounter,
			SchedulerRunDuration,
			NotificationCounter,
			WSOnlineClients,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
