package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddlewareExposesCounters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	mux.Handle("GET /metrics", metrics.Handler())
	h := metrics.HTTPMetricsMiddleware(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/things/42", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	metrics.ObserveLogin("credentials", "failure")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `tenancy_http_requests_total{method="GET",route="GET /v1/things/{id}",status="202"}`)
	require.Contains(t, body, `tenancy_login_attempts_total{provider="credentials",result="failure"}`)
}
