package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/internal/reqctx"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	userID string
	err    error
}

func (s stubAuth) Authenticate(token string) (string, error) {
	if token != "good" {
		return "", errors.New("Not authorized, token failed")
	}
	return s.userID, s.err
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := reqctx.GetUserID(r.Context())
	w.Header().Set("X-User", uid)
	w.WriteHeader(http.StatusOK)
}

func TestJWTAuth(t *testing.T) {
	h := JWTAuth(stubAuth{userID: "u-1"}, http.HandlerFunc(okHandler))

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"нет заголовка", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"не bearer", "Basic abc", http.StatusUnauthorized, "Not authorized, no token"},
		{"плохой токен", "Bearer bad", http.StatusUnauthorized, "Not authorized, token failed"},
		{"ок", "Bearer good", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Contains(t, rec.Body.String(), tc.body)
			} else {
				assert.Equal(t, "u-1", rec.Header().Get("X-User"))
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = reqctx.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Server Error"}`, rec.Body.String())
}

func TestLogging_KeepsStatus(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

type recordedRequest struct {
	route  string
	method string
	status int
}

type fakeHTTPRecorder struct{ got []recordedRequest }

func (f *fakeHTTPRecorder) RecordRequest(route, method string, status int, _ time.Duration) {
	f.got = append(f.got, recordedRequest{route, method, status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	r := mux.NewRouter()
	r.Use(Metrics(rec))
	r.HandleFunc("/api/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/messages/42", nil))

	require.Len(t, rec.got, 1)
	assert.Equal(t, recordedRequest{"/api/messages/{id}", http.MethodGet, http.StatusNotFound}, rec.got[0])
}

func TestIPRateLimiter(t *testing.T) {
	rl := NewIPRateLimiter(2, time.Hour)
	defer rl.Stop()
	h := rl.Middleware(http.HandlerFunc(okHandler))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2:1111"), "другой IP, свой лимит")

	assert.Equal(t, 2, rl.size())
	rl.cleanup(time.Now().Add(3 * time.Hour))
	assert.Equal(t, 0, rl.size())
}
