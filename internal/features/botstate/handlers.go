// Package botstate — handlers.go отдаёт Store по HTTP.
// Каждый мутирующий эндпоинт возвращает новый снапшот агрегата.
package botstate

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"serotonyl.ru/telebot-pro/internal/console/api"
)

// Handler обрабатывает запросы к состоянию бота.
type Handler struct {
	store *Store
}

// NewHandler создаёт обработчик состояния.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes подключает маршруты к роутеру.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.getState)
	r.Get("/dashboard", h.getDashboard)

	r.Put("/settings", h.saveSettings)
	r.Put("/settings/token", h.setToken)
	r.Put("/settings/senior-admin", h.setSeniorAdmin)

	r.Post("/bot/start", h.startBot)
	r.Post("/bot/stop", h.stopBot)

	r.Post("/admins", h.addAdmin)
	r.Delete("/admins/{id}", h.removeAdmin)
	r.Post("/moderators", h.addModerator)
	r.Delete("/moderators/{id}", h.removeModerator)

	r.Get("/commands/system", h.systemCommands)
	r.Post("/commands", h.addCommand)
	r.Delete("/commands/{id}", h.removeCommand)
	r.Post("/programmable-commands", h.addProgrammableCommand)
	r.Delete("/programmable-commands/{id}", h.removeProgrammableCommand)

	r.Post("/files", h.addFile)
	r.Delete("/files/{id}", h.removeFile)
	r.Post("/channels", h.addChannel)
	r.Delete("/channels/{id}", h.removeChannel)

	r.Post("/banned-words", h.addBannedWord)
	r.Delete("/banned-words/{word}", h.removeBannedWord)

	r.Get("/moderation/users", h.listUsers)
	r.Post("/moderation/check", h.checkMessage)
	r.Post("/moderation/users/{id}/warn", h.warnUser)
	r.Post("/moderation/users/{id}/pardon", h.pardonUser)
	r.Post("/moderation/users/{id}/scammer", h.toggleScammer)
	r.Post("/moderation/users/{id}/ban", h.banUser)

	r.Get("/direct-shares", h.listDirectShares)
}

// respond отвечает снапшотом или ошибкой.
func respond(w http.ResponseWriter, state BotState, err error) {
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.JSON(w, http.StatusOK, state)
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, Dashboard(h.store.Snapshot()))
}

// --- Настройки ---

type settingsRequest struct {
	Token         string `json:"token"`
	SeniorAdminID string `json:"seniorAdminId"`
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	api.JSON(w, http.StatusOK, h.store.SaveSettings(r.Context(), req.Token, req.SeniorAdminID))
}

func (h *Handler) setToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	api.JSON(w, http.StatusOK, h.store.SetToken(r.Context(), req.Token))
}

func (h *Handler) setSeniorAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeniorAdminID string `json:"seniorAdminId"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	api.JSON(w, http.StatusOK, h.store.SetSeniorAdminID(r.Context(), req.SeniorAdminID))
}

func (h *Handler) startBot(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.StartBot(r.Context())
	respond(w, state, err)
}

func (h *Handler) stopBot(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.store.StopBot(r.Context()))
}

// --- Роли ---

func (h *Handler) addAdmin(w http.ResponseWriter, r *http.Request) {
	var user User
	if !api.DecodeOrFail(w, r, &user) {
		return
	}
	state, err := h.store.AddAdmin(r.Context(), user)
	respond(w, state, err)
}

func (h *Handler) removeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveAdmin(r.Context(), id))
}

func (h *Handler) addModerator(w http.ResponseWriter, r *http.Request) {
	var user User
	if !api.DecodeOrFail(w, r, &user) {
		return
	}
	state, err := h.store.AddModerator(r.Context(), user)
	respond(w, state, err)
}

func (h *Handler) removeModerator(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveModerator(r.Context(), id))
}

// --- Команды ---

func (h *Handler) systemCommands(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, SystemCommands())
}

func (h *Handler) addCommand(w http.ResponseWriter, r *http.Request) {
	var cmd CustomCommand
	if !api.DecodeOrFail(w, r, &cmd) {
		return
	}
	state, err := h.store.AddCommand(r.Context(), cmd)
	respond(w, state, err)
}

func (h *Handler) removeCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveCommand(r.Context(), id))
}

func (h *Handler) addProgrammableCommand(w http.ResponseWriter, r *http.Request) {
	var cmd ProgrammableCommand
	if !api.DecodeOrFail(w, r, &cmd) {
		return
	}
	state, err := h.store.AddProgrammableCommand(r.Context(), cmd)
	respond(w, state, err)
}

func (h *Handler) removeProgrammableCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveProgrammableCommand(r.Context(), id))
}

// --- Файлы и каналы ---

func (h *Handler) addFile(w http.ResponseWriter, r *http.Request) {
	var file SharedFile
	if !api.DecodeOrFail(w, r, &file) {
		return
	}
	state, err := h.store.AddFile(r.Context(), file)
	respond(w, state, err)
}

func (h *Handler) removeFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveFile(r.Context(), id))
}

func (h *Handler) addChannel(w http.ResponseWriter, r *http.Request) {
	var channel ManagedChannel
	if !api.DecodeOrFail(w, r, &channel) {
		return
	}
	state, err := h.store.AddChannel(r.Context(), channel)
	respond(w, state, err)
}

func (h *Handler) removeChannel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveChannel(r.Context(), id))
}

// --- Модерация ---

func (h *Handler) addBannedWord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Word string `json:"word"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	state, err := h.store.AddBannedWord(r.Context(), req.Word)
	respond(w, state, err)
}

func (h *Handler) removeBannedWord(w http.ResponseWriter, r *http.Request) {
	word, ok := pathParam(w, r, "word")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.RemoveBannedWord(r.Context(), word))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := UsersByFilter(h.store.Snapshot(), r.URL.Query().Get("filter"))
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.JSON(w, http.StatusOK, users)
}

type checkResponse struct {
	Matched   []string `json:"matched"`
	WouldWarn bool     `json:"wouldWarn"`
}

func (h *Handler) checkMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !api.DecodeOrFail(w, r, &req) {
		return
	}
	matched := MatchBannedWords(h.store.Snapshot(), req.Text)
	api.JSON(w, http.StatusOK, checkResponse{Matched: matched, WouldWarn: len(matched) > 0})
}

func (h *Handler) warnUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.AddWarning(r.Context(), id))
}

func (h *Handler) pardonUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.PardonUser(r.Context(), id))
}

func (h *Handler) toggleScammer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.ToggleScammerStatus(r.Context(), id))
}

func (h *Handler) banUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, h.store.ManualBan(r.Context(), id))
}

// --- Личные отправки ---

func (h *Handler) listDirectShares(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.store.Snapshot().DirectShares)
}

// pathParam достаёт параметр пути. Если в запросе есть RawPath (%40news, a%2Fb),
// chi маршрутизирует по нему и отдаёт параметр закодированным, его надо раскодировать.
// Без RawPath параметр уже раскодирован.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, true
	}
	value, err := url.PathUnescape(value)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "некорректный параметр "+name)
		return "", false
	}
	return value, true
}
