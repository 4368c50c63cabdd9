package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/console/api"
)

// RecoverFromPanic логирует панику. Вызывать через defer в горутинах.
func RecoverFromPanic() {
	if r := recover(); r != nil {
		logPanic(r)
	}
}

// Recoverer перехватывает панику обработчика и отвечает 500.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logPanic(rec)
			api.Error(w, http.StatusInternalServerError, "внутренняя ошибка")
		}()
		next.ServeHTTP(w, r)
	})
}

func logPanic(r interface{}) {
	log.WithFields(log.Fields{
		"component": "panic_recovery",
		"panic":     fmt.Sprintf("%v", r),
		"stack":     string(debug.Stack()),
	}).Error("ПАНИКА в обработчике — восстановлено")
}
