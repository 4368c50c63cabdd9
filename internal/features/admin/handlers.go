// Package admin — handlers.go: HTTP-эндпоинты симуляций и прямой отправки файлов.
package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mymmrac/telego"

	"serotonyl.ru/telebot-pro/internal/console/api"
	"serotonyl.ru/telebot-pro/internal/features/botstate"
)

// ShareSender записывает прямую отправку файла в журнал.
type ShareSender interface {
	SendDirectFile(ctx context.Context, share botstate.DirectShare) (botstate.BotState, error)
}

// Handler обрабатывает админ-действия.
type Handler struct {
	service *Service
	shares  ShareSender
}

// NewHandler создаёт обработчик админ-действий.
func NewHandler(service *Service, shares ShareSender) *Handler {
	return &Handler{service: service, shares: shares}
}

// RegisterRoutes подключает маршруты.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin-actions/broadcast", h.broadcast)
	r.Post("/admin-actions/{action}", h.simulate)
	r.Post("/direct-shares", h.sendDirectFile)
}

func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}

	report, err := h.service.Simulate(r.Context(), Action(chi.URLParam(r, "action")), req.UserID)
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.JSON(w, http.StatusOK, report)
}

func (h *Handler) broadcast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Enhance bool   `json:"enhance"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}

	report, err := h.service.Broadcast(r.Context(), req.Message, req.Enhance)
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.JSON(w, http.StatusOK, report)
}

type shareResponse struct {
	State   botstate.BotState          `json:"state"`
	Preview *telego.SendDocumentParams `json:"preview,omitempty"`
}

func (h *Handler) sendDirectFile(w http.ResponseWriter, r *http.Request) {
	var share botstate.DirectShare
	if !api.DecodeOrFail(w, r, &share) {
		return
	}

	state, err := h.shares.SendDirectFile(r.Context(), share)
	if err != nil {
		api.Fail(w, err)
		return
	}

	resp := shareResponse{State: state}
	if preview, ok := PreviewDirectShare(share); ok {
		resp.Preview = preview
	}
	api.JSON(w, http.StatusOK, resp)
}
