// Package metrics exposes Prometheus collectors for the tenancy service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tenancy_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_login_attempts_total",
		Help: "Login attempts by provider and result",
	}, []string{"provider", "result"})

	credentialFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_credential_failures_total",
		Help: "Credential verification failures by internal reason",
	}, []string{"reason"})

	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenancy_sessions_created_total",
		Help: "Sessions issued",
	})

	sessionValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_session_validations_total",
		Help: "Session validations by outcome",
	}, []string{"result"})

	sessionCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_session_cache_lookups_total",
		Help: "Session cache lookups by outcome",
	}, []string{"result"})

	invitations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_invitations_total",
		Help: "Invitation lifecycle events",
	}, []string{"event"})

	rateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_ratelimit_rejections_total",
		Help: "Requests rejected by a rate limiter",
	}, []string{"limiter"})

	housekeepingRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenancy_housekeeping_removed_total",
		Help: "Rows removed or expired by housekeeping",
	}, []string{"kind"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveLogin records a login attempt. result is "success" or "failure".
func ObserveLogin(provider, result string) {
	loginAttempts.WithLabelValues(provider, result).Inc()
}

// ObserveCredentialFailure records why a credential check failed. The reason
// never reaches the caller.
func ObserveCredentialFailure(reason string) {
	credentialFailures.WithLabelValues(reason).Inc()
}

func ObserveSessionCreated() {
	sessionsCreated.Inc()
}

// ObserveSessionValidation records "valid", "invalid" or "error".
func ObserveSessionValidation(result string) {
	sessionValidations.WithLabelValues(result).Inc()
}

// ObserveSessionCache records "hit", "miss" or "error".
func ObserveSessionCache(result string) {
	sessionCacheLookups.WithLabelValues(result).Inc()
}

// ObserveInvitation records "issued", "accepted", "revoked" or "expired".
func ObserveInvitation(event string) {
	invitations.WithLabelValues(event).Inc()
}

func ObserveRateLimitRejection(limiter string) {
	rateLimitRejections.WithLabelValues(limiter).Inc()
}

func ObserveHousekeeping(kind string, n int64) {
	if n <= 0 {
		return
	}
	housekeepingRemoved.WithLabelValues(kind).Add(float64(n))
}
