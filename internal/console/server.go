package console

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/telebot-pro/internal/config"
)

// Server — HTTP-сервер консоли.
type Server struct {
	srv *http.Server
}

// NewServer создаёт сервер с таймаутами из конфигурации.
func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      handler,
			ReadTimeout:  cfg.HTTPReadTimeout,
			WriteTimeout: cfg.HTTPWriteTimeout,
			IdleTimeout:  2 * cfg.HTTPWriteTimeout,
		},
	}
}

// Addr возвращает адрес, на котором слушает сервер.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Handler возвращает корневой обработчик.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe блокирует до остановки. Штатная остановка через Shutdown не ошибка.
func (s *Server) ListenAndServe() error {
	log.WithField("addr", s.srv.Addr).Info("HTTP-сервер консоли запущен")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown дожидается завершения текущих запросов в пределах ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Останавливаем HTTP-сервер...")
	return s.srv.Shutdown(ctx)
}
