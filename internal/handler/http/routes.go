package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withMetrics)
	router.Use(h.withGZip)
	if h.server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.server.RequestTimeout))
	}

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.checkHTTPMethod)

	router.Handle("/metrics", h.metrics.handler())
	if h.staticDir != "" {
		router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", h.handle(h.healthcheck))

		r.Route("/users", func(r chi.Router) {
			// routes without authorization
			r.Group(func(r chi.Router) {
				r.Use(h.withRateLimit)
				r.Post("/register", h.handle(h.register))
				r.Post("/login", h.handle(h.login))
			})
			r.Post("/refresh-token", h.handle(h.refreshToken))
			r.With(h.optionalAuth).Get("/channel/{username}", h.handle(h.channelProfile))

			// routes with authorization
			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Post("/logout", h.handle(h.logout))
				r.Post("/change-password", h.handle(h.changePassword))
				r.Get("/current", h.handle(h.currentUser))
				r.Patch("/account", h.handle(h.updateAccount))
				r.Patch("/avatar", h.handle(h.updateAvatar))
				r.Patch("/cover-image", h.handle(h.updateCoverImage))
				r.Get("/watch-history", h.handle(h.watchHistory))
			})
		})
	})

	return router
}
