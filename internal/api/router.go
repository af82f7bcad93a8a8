package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"studymate.dev/presentation/internal/site"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// Presentation page and its assets
	r.Get("/", apiHandler.IndexHandler)
	r.Handle("/static/*", site.StaticHandler("/static/"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Demo panel sessions, one per page view
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", apiHandler.CreateSessionHandler)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", apiHandler.GetSessionHandler)
				r.Delete("/", apiHandler.DeleteSessionHandler)
				r.Put("/file", apiHandler.AttachFileHandler)
				r.Delete("/file", apiHandler.RemoveFileHandler)
				r.Post("/messages", apiHandler.PostMessageHandler)
				r.Get("/stream", apiHandler.StreamHandler)
			})
		})
	})

	return r
}
