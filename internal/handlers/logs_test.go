package handlers

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	current := strings.Join([]string{
		`{"time":"2025-03-02T09:15:00.000+03:00","level":"INFO","message":"HTTP-запрос","path":"/api/projects"}`,
		`{"time":"2025-03-02T10:01:00.000+03:00","level":"ERROR","message":"Письмо не ушло"}`,
		`not json at all`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte(current), 0o644))

	f, err := os.Create(filepath.Join(dir, "app-2025-03-01T23-59-59.000.log.gz"))
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(`{"time":"2025-03-01T12:00:00.000+03:00","level":"WARN","message":"Вход: неверный пароль"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	return dir
}

func newLogsHandler(dir string) *AdminLogsHandler {
	return &AdminLogsHandler{
		LogDir:    dir,
		Retention: 14,
		now:       func() time.Time { return time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC) },
	}
}

func TestAdminLogs_ListDays(t *testing.T) {
	h := newLogsHandler(writeLogs(t))
	w := httptest.NewRecorder()
	h.ListDays(w, httptest.NewRequest(http.MethodGet, "/api/admin/logs/days", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct{ Days []string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, body.Days)
}

func TestAdminLogs_GetLogs(t *testing.T) {
	h := newLogsHandler(writeLogs(t))

	get := func(query string) map[string]any {
		w := httptest.NewRecorder()
		h.GetLogs(w, httptest.NewRequest(http.MethodGet, "/api/admin/logs?"+query, nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	assert.Len(t, get("day=2025-03-02")["items"], 2)
	assert.Len(t, get("day=2025-03-02&level=error")["items"], 1)
	assert.Len(t, get("day=2025-03-02&q=projects")["items"], 1)
	assert.Len(t, get("day=2025-03-01")["items"], 1, "строки из gz-архива тоже читаются")

	page := get("day=2025-03-02&limit=1")
	assert.Len(t, page["items"], 1)
	assert.Equal(t, float64(1), page["nextCursor"])
	assert.Len(t, get("day=2025-03-02&limit=1&cursor=1")["items"], 1)
}

func TestAdminLogs_BadDayAndMissingDir(t *testing.T) {
	h := newLogsHandler(writeLogs(t))
	w := httptest.NewRecorder()
	h.GetLogs(w, httptest.NewRequest(http.MethodGet, "/api/admin/logs?day=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h = newLogsHandler(filepath.Join(t.TempDir(), "nope"))
	w = httptest.NewRecorder()
	h.GetLogs(w, httptest.NewRequest(http.MethodGet, "/api/admin/logs?day=2025-03-02", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminLogs_Stats(t *testing.T) {
	h := newLogsHandler(writeLogs(t))
	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/api/admin/logs/stats?day=2025-03-02", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Stats map[string]map[string]int `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Stats["9"]["INFO"])
	assert.Equal(t, 1, body.Stats["10"]["ERROR"])
}
