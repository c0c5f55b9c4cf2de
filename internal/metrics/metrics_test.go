package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/api/auth/login", http.MethodPost, 401, 5*time.Millisecond)
	c.RecordRequest("/api/auth/login", http.MethodPost, 401, 3*time.Millisecond)
	c.RecordAuthEvent("login", "invalid_credentials")

	body := scrape(t, reg)
	assert.Contains(t, body, `portfolio_http_requests_total{method="POST",route="/api/auth/login",status="401"} 2`)
	assert.Contains(t, body, `portfolio_auth_events_total{event="login",outcome="invalid_credentials"} 1`)
	assert.Contains(t, body, "portfolio_http_request_duration_seconds")
}

func TestNop(t *testing.T) {
	var a AuthRecorder = Nop{}
	var h HTTPRecorder = Nop{}
	a.RecordAuthEvent("login", "success")
	h.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
}
