// Package api содержит общие помощники HTTP-обработчиков консоли:
// запись JSON-ответов, ошибок и разбор тела запроса.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/common"
)

// maxBodyBytes ограничивает размер тела запроса (скрипты команд бывают длинными).
const maxBodyBytes = 1 << 20

// JSON пишет ответ в формате JSON с заданным статусом.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Ошибка кодирования ответа")
	}
}

// Error пишет ошибку вида {"error": "..."}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Fail выбирает статус по типу ошибки: валидация → 400, остальное → 500.
func Fail(w http.ResponseWriter, err error) {
	if common.IsValidation(err) {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	log.WithError(err).Error("Внутренняя ошибка обработчика")
	Error(w, http.StatusInternalServerError, "внутренняя ошибка")
}

// Decode разбирает JSON-тело запроса в dst.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	return nil
}

// DecodeOrFail разбирает тело и при ошибке сам отвечает 400.
func DecodeOrFail(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := Decode(r, dst); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// Ошибки разбора тела запроса
var (
	// ErrEmptyBody — тело запроса пустое
	ErrEmptyBody = errors.New("пустое тело запроса")
	// ErrBadJSON — тело запроса не является корректным JSON
	ErrBadJSON = errors.New("некорректный JSON")
)
