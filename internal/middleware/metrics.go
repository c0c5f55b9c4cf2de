package middleware

import (
	"net/http"
	"time"

	"portfolio/internal/metrics"

	"github.com/gorilla/mux"
)

// Metrics считает запросы по шаблону маршрута, а не по сырому пути,
// чтобы id в URL не раздували кардинальность.
func Metrics(rec metrics.HTTPRecorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(lrw, r)

			route := "unmatched"
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			rec.RecordRequest(route, r.Method, lrw.statusCode, time.Since(start))
		})
	}
}
