// Package console собирает HTTP-поверхность консоли: роутер chi и сервер.
package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"serotonyl.ru/telebot-pro/internal/console/api"
	"serotonyl.ru/telebot-pro/internal/console/middleware"
)

// Registrar подключает свои маршруты к роутеру.
type Registrar interface {
	RegisterRoutes(r chi.Router)
}

// Routes — обработчики, которые монтируются под /api.
type Routes struct {
	// API монтируются прямо в /api.
	API []Registrar
	// AI монтируется в /api/ai за лимитером запросов.
	AI Registrar
}

// NewRouter создаёт роутер с общими middleware.
func NewRouter(allowedOrigins []string, limiter *middleware.RateLimiter, routes Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(chimw.Heartbeat("/health"))
	r.Use(middleware.CORS(allowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusNotFound, "маршрут не найден")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Error(w, http.StatusMethodNotAllowed, "метод не поддерживается")
	})

	r.Route("/api", func(r chi.Router) {
		for _, reg := range routes.API {
			reg.RegisterRoutes(r)
		}
		if routes.AI != nil {
			r.Route("/ai", func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware)
				}
				routes.AI.RegisterRoutes(r)
			})
		}
	})

	return r
}
