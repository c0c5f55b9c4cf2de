package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/utils/helpers"
)

// AdminLogsHandler читает JSON-логи из LogDir: текущий app.log и
// ротированные lumberjack-файлы app-<timestamp>.log[.gz].
// День строки берётся из её поля time, а не из имени файла.
type AdminLogsHandler struct {
	LogDir    string
	Retention int // дней
	now       func() time.Time
}

func NewAdminLogsHandler(cfg *config.Config) *AdminLogsHandler {
	return &AdminLogsHandler{
		LogDir:    cfg.LogDir,
		Retention: 14,
		now:       time.Now,
	}
}

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type logLine struct {
	Time  string `json:"time"`
	Level string `json:"level"`
}

// ListDays
// @Summary      Доступные дни логов
// @Tags         admin-logs
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200 {object} map[string][]string "days"
// @Failure      401 {object} helpers.ErrorResponse
// @Router       /api/admin/logs/days [get]
func (h *AdminLogsHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	oldest := h.now().AddDate(0, 0, -h.Retention+1).Format("2006-01-02")
	seen := map[string]bool{}

	_ = h.forEachLine(func(raw []byte) bool {
		var l logLine
		if json.Unmarshal(raw, &l) != nil || len(l.Time) < 10 {
			return true
		}
		if d := l.Time[:10]; d >= oldest {
			seen[d] = true
		}
		return true
	})

	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, map[string]any{"days": days})
}

// GetLogs
// @Summary      Логи за день
// @Description  JSON-строки логов за день с фильтрами по уровню, часу и подстроке.
// @Tags         admin-logs
// @Security     ApiKeyAuth
// @Produce      json
// @Param        day     query  string true  "Дата (YYYY-MM-DD)"
// @Param        level   query  string false "CSV уровней: debug,info,warn,error"
// @Param        hour    query  int    false "Час (0-23)"
// @Param        q       query  string false "Поиск по подстроке"
// @Param        limit   query  int    false "Лимит (по умолч. 200, макс. 1000)"
// @Param        cursor  query  int    false "Сколько совпадений пропустить"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} helpers.ErrorResponse
// @Failure      404 {object} helpers.ErrorResponse
// @Router       /api/admin/logs [get]
func (h *AdminLogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	day := query.Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "bad day")
		return
	}

	levels := toUpperSet(query.Get("level"))
	needle := strings.ToLower(strings.TrimSpace(query.Get("q")))

	hour := -1
	if hv, err := strconv.Atoi(query.Get("hour")); err == nil && hv >= 0 && hv <= 23 {
		hour = hv
	}

	limit := clampAtoi(query.Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(query.Get("cursor"), 0, 0, 10_000_000)

	skipped := 0
	items := make([]json.RawMessage, 0)

	err := h.forEachLine(func(raw []byte) bool {
		var l logLine
		if json.Unmarshal(raw, &l) != nil || !strings.HasPrefix(l.Time, day) {
			return true
		}
		if len(levels) > 0 && !levels[strings.ToUpper(l.Level)] {
			return true
		}
		if hour >= 0 {
			t, err := time.Parse(time.RFC3339Nano, l.Time)
			if err != nil || t.Hour() != hour {
				return true
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(string(raw)), needle) {
			return true
		}
		if skipped < cursor {
			skipped++
			return true
		}
		items = append(items, append(json.RawMessage{}, raw...))
		return len(items) < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "logs not found")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]any{
		"day":        day,
		"items":      items,
		"nextCursor": cursor + len(items),
	})
}

// Stats
// @Summary      Количество записей по часам и уровням за день
// @Tags         admin-logs
// @Security     ApiKeyAuth
// @Produce      json
// @Param        day query string true "Дата (YYYY-MM-DD)"
// @Success      200 {object} map[string]interface{}
// @Router       /api/admin/logs/stats [get]
func (h *AdminLogsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "bad day")
		return
	}

	stats := make(map[int]map[string]int, 24)
	for hr := 0; hr < 24; hr++ {
		stats[hr] = map[string]int{}
	}
	_ = h.forEachLine(func(raw []byte) bool {
		var l logLine
		if json.Unmarshal(raw, &l) != nil || !strings.HasPrefix(l.Time, day) || l.Level == "" {
			return true
		}
		if t, err := time.Parse(time.RFC3339Nano, l.Time); err == nil {
			stats[t.Hour()][strings.ToUpper(l.Level)]++
		}
		return true
	})

	helpers.JSON(w, http.StatusOK, map[string]any{"day": day, "stats": stats})
}

// files: ротированные файлы по возрастанию имени (= времени ротации), затем app.log.
func (h *AdminLogsHandler) files() ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}
	var rotated []string
	current := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == "app.log":
			current = filepath.Join(h.LogDir, name)
		case strings.HasPrefix(name, "app-") &&
			(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.gz")):
			rotated = append(rotated, filepath.Join(h.LogDir, name))
		}
	}
	sort.Strings(rotated)
	if current != "" {
		rotated = append(rotated, current)
	}
	if len(rotated) == 0 {
		return nil, os.ErrNotExist
	}
	return rotated, nil
}

// forEachLine обходит строки всех файлов; handle возвращает false, чтобы остановиться.
func (h *AdminLogsHandler) forEachLine(handle func([]byte) bool) error {
	files, err := h.files()
	if err != nil {
		return err
	}
	for _, path := range files {
		if !h.scanFile(path, handle) {
			return nil
		}
	}
	return nil
}

func (h *AdminLogsHandler) scanFile(path string, handle func([]byte) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gz.Close()
		reader = gz
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false
		}
	}
	return true
}

func toUpperSet(csv string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			m[strings.ToUpper(p)] = true
		}
	}
	return m
}

func clampAtoi(s string, def, min, max int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
