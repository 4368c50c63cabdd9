// Package middleware содержит HTTP-middleware консоли: логирование запросов,
// восстановление после паники, rate-limiting и CORS.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Logger логирует каждый запрос: метод, путь, статус, размер ответа и длительность.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			entry := log.WithFields(log.Fields{
				"request_id": chimw.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"remote":     r.RemoteAddr,
				"duration":   time.Since(start).Round(time.Microsecond).String(),
			})

			switch {
			case status >= http.StatusInternalServerError:
				entry.Error("HTTP-запрос")
			case status >= http.StatusBadRequest:
				entry.Warn("HTTP-запрос")
			default:
				entry.Debug("HTTP-запрос")
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
