// Package assistant — handlers.go: HTTP-эндпоинты AI-помощника.
package assistant

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/telebot-pro/internal/common"
	"serotonyl.ru/telebot-pro/internal/console/api"
)

// Handler обрабатывает запросы к AI-помощнику.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик AI-помощника.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes подключает маршруты. Лимит запросов вешается снаружи.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.status)
	r.Post("/command-response", h.commandResponse)
	r.Post("/enhance-broadcast", h.enhanceBroadcast)
}

type textResponse struct {
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]bool{"enabled": h.service.Enabled()})
}

func (h *Handler) commandResponse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		api.Fail(w, common.ErrPromptRequired)
		return
	}

	text := h.service.GenerateCommandResponse(r.Context(), req.Prompt)
	api.JSON(w, http.StatusOK, textResponse{Text: text, Enabled: h.service.Enabled()})
}

func (h *Handler) enhanceBroadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.Fail(w, common.ErrBroadcastMessageRequired)
		return
	}

	text := h.service.EnhanceBroadcastMessage(r.Context(), req.Message)
	api.JSON(w, http.StatusOK, textResponse{Text: text, Enabled: h.service.Enabled()})
}
