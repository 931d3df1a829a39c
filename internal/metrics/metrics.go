package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface the rest of the application records
// against. A noop implementation backs it when metrics are disabled.
type Recorder interface {
	RecordOAuthLogin(provider string, success bool)
	RecordOAuthCallback(provider string, success bool)
	RecordLogout()
	RecordPostCreated(status string)
	RecordPostDeleted()
	RecordCommentAdded()
	RecordDatabaseError(operation string)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication metrics
	OAuthLoginTotal    *prometheus.CounterVec
	OAuthCallbackTotal *prometheus.CounterVec
	LogoutTotal        prometheus.Counter

	// Content metrics
	PostsCreatedTotal *prometheus.CounterVec
	PostsDeletedTotal prometheus.Counter
	CommentsTotal     prometheus.Counter

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database metrics
	DatabaseErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on the enabled flag. Prometheus metrics are
// registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

func initMetrics() *Metrics {
	return &Metrics{
		OAuthLoginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybook_oauth_login_total",
				Help: "OAuth login redirects by provider and result",
			},
			[]string{"provider", "result"},
		),
		OAuthCallbackTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybook_oauth_callback_total",
				Help: "OAuth callbacks by provider and result",
			},
			[]string{"provider", "result"},
		),
		LogoutTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "storybook_logout_total",
				Help: "Logouts",
			},
		),
		PostsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybook_posts_created_total",
				Help: "Posts created by visibility status",
			},
			[]string{"status"},
		),
		PostsDeletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "storybook_posts_deleted_total",
				Help: "Posts deleted",
			},
		),
		CommentsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "storybook_comments_total",
				Help: "Comments added to posts",
			},
		),
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybook_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storybook_http_request_duration_seconds",
				Help:    "HTTP request duration by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "storybook_http_requests_in_flight",
				Help: "HTTP requests currently being served",
			},
		),
		DatabaseErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybook_database_errors_total",
				Help: "Database errors by operation",
			},
			[]string{"operation"},
		),
	}
}

const (
	resultSuccess = "success"
	resultError   = "error"
)

func result(success bool) string {
	if success {
		return resultSuccess
	}
	return resultError
}

// RecordOAuthLogin records an OAuth login redirect
func (m *Metrics) RecordOAuthLogin(provider string, success bool) {
	m.OAuthLoginTotal.WithLabelValues(provider, result(success)).Inc()
}

// RecordOAuthCallback records an OAuth callback outcome
func (m *Metrics) RecordOAuthCallback(provider string, success bool) {
	m.OAuthCallbackTotal.WithLabelValues(provider, result(success)).Inc()
}

// RecordLogout records a logout
func (m *Metrics) RecordLogout() {
	m.LogoutTotal.Inc()
}

// RecordPostCreated records a post creation
func (m *Metrics) RecordPostCreated(status string) {
	m.PostsCreatedTotal.WithLabelValues(status).Inc()
}

// RecordPostDeleted records a post deletion
func (m *Metrics) RecordPostDeleted() {
	m.PostsDeletedTotal.Inc()
}

// RecordCommentAdded records a comment append
func (m *Metrics) RecordCommentAdded() {
	m.CommentsTotal.Inc()
}

// RecordDatabaseError records a failed database operation
func (m *Metrics) RecordDatabaseError(operation string) {
	m.DatabaseErrorsTotal.WithLabelValues(operation).Inc()
}

// observeRequest records one served HTTP request
func (m *Metrics) observeRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
