package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avendano/fixhub/backend/internal/handler/assistant"
	"github.com/avendano/fixhub/backend/internal/handler/stream"
	middlewarePkg "github.com/avendano/fixhub/backend/internal/middleware"
	"github.com/avendano/fixhub/backend/internal/platform/logger"
	"github.com/avendano/fixhub/backend/internal/service/analytics"
	"github.com/avendano/fixhub/backend/internal/service/dispatch"
	"github.com/avendano/fixhub/backend/internal/service/session"
	"github.com/avendano/fixhub/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(sessions *session.Manager, dispatcher *dispatch.Dispatcher, agg *analytics.Aggregator, defaultLanguage string, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	assistantHandler := assistant.New(sessions, dispatcher, agg, defaultLanguage)
	streamHandler := stream.New(sessions, dispatcher, log)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		assistantHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
	})

	return r
}
