package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckgen-ai/deckgen/internal/api"
	"github.com/deckgen-ai/deckgen/internal/api/handlers"
	"github.com/deckgen-ai/deckgen/internal/api/middleware"
)

type RouterConfig struct {
	APIToken      string
	DeckHandler   *handlers.DeckHandler
	StudyHandler  *handlers.StudyHandler
	ExportHandler *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.APIToken))

		r.Route("/v1/decks", func(r chi.Router) {
			r.Post("/", cfg.DeckHandler.Create)
			r.Get("/", cfg.DeckHandler.List)
			r.Get("/{id}", cfg.DeckHandler.Get)
			r.Delete("/{id}", cfg.DeckHandler.Delete)
			r.Get("/{id}/cards", cfg.DeckHandler.GetCards)

			r.Post("/{id}/study", cfg.StudyHandler.Start)
			r.Get("/{id}/study", cfg.StudyHandler.Current)
			r.Delete("/{id}/study", cfg.StudyHandler.End)
			r.Post("/{id}/study/reveal", cfg.StudyHandler.Reveal)
			r.Post("/{id}/study/grade", cfg.StudyHandler.Grade)

			r.Get("/{id}/export", cfg.ExportHandler.Download)
			r.Post("/{id}/export/url", cfg.ExportHandler.GetDownloadURL)
		})
	})

	return r
}
