// Package assistant реализует AI-помощника консоли: генерацию ответа
// для команды и улучшение текста рассылки.
//
// Оба вызова best-effort: ошибок наружу не отдают, без ключа или при сбое
// возвращают фиксированную заглушку или исходный текст.
package assistant

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Фиксированные ответы, которые видит пользователь консоли.
const (
	DisabledMessage = "AI features disabled. Please set API_KEY."
	ErrorMessage    = "Error generating AI response."
)

// Service — AI-помощник. Без Completer работает в отключённом режиме.
type Service struct {
	completer Completer
	prompts   Prompts
	timeout   time.Duration
}

// NewService создаёт помощника. completer == nil означает «ключ не задан».
func NewService(completer Completer, prompts Prompts, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		completer: completer,
		prompts:   prompts,
		timeout:   timeout,
	}
}

// Enabled сообщает, доступны ли AI-функции.
func (s *Service) Enabled() bool {
	return s.completer != nil
}

// GenerateCommandResponse придумывает ответ для команды по описанию prompt.
func (s *Service) GenerateCommandResponse(ctx context.Context, prompt string) string {
	if !s.Enabled() {
		return DisabledMessage
	}

	text, err := s.complete(ctx, render(s.prompts.CommandResponse, prompt))
	if err != nil {
		log.WithError(err).WithField("op", "command_response").Error("Ошибка AI-запроса")
		return ErrorMessage
	}
	return text
}

// EnhanceBroadcastMessage улучшает текст рассылки. При любой проблеме возвращает message как есть.
func (s *Service) EnhanceBroadcastMessage(ctx context.Context, message string) string {
	if !s.Enabled() {
		return message
	}

	text, err := s.complete(ctx, render(s.prompts.EnhanceBroadcast, message))
	if err != nil {
		log.WithError(err).WithField("op", "enhance_broadcast").Error("Ошибка AI-запроса")
		return message
	}
	return text
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.completer.Complete(ctx, prompt)
	log.WithFields(log.Fields{
		"duration": time.Since(start).Round(time.Millisecond).String(),
		"ok":       err == nil,
	}).Debug("AI-запрос выполнен")
	return text, err
}
