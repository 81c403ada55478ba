// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/thebox/internal/auth"
	"github.com/tomtom215/thebox/internal/middleware"
	"github.com/tomtom215/thebox/internal/models"
	"github.com/tomtom215/thebox/internal/stories"
)

// defaultSlowRequest is the access log threshold for slow requests.
const defaultSlowRequest = 500 * time.Millisecond

// RouterOptions configures Setup.
type RouterOptions struct {
	Middleware *ChiMiddlewareConfig
	// MediaDir, when set, is served read-only under /media/.
	MediaDir string
	// SlowRequest is the access log warn threshold.
	SlowRequest time.Duration
}

// Router builds the HTTP handler tree.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
	mediaDir      string
	slow          time.Duration
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, opts RouterOptions) *Router {
	slow := opts.SlowRequest
	if slow <= 0 {
		slow = defaultSlowRequest
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: NewChiMiddleware(opts.Middleware),
		mediaDir:      opts.MediaDir,
		slow:          slow,
	}
}

// Setup configures all routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.AccessLog(router.slow))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	if router.mediaDir != "" {
		r.Handle(stories.MediaPath+"*", http.StripPrefix(stories.MediaPath, noDirListing(http.FileServer(http.Dir(router.mediaDir)))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitAuth())
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
				r.Post("/refresh", h.Refresh)
			})
			r.With(router.auth.RequireAuth).Post("/logout", h.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Group(func(r chi.Router) {
				r.Use(router.auth.RequireAuth)
				r.Put("/me", h.UpdateMe)
				r.Delete("/me", h.DeleteMe)
			})
			r.Get("/{id}", h.GetUser)
		})

		r.Route("/stories", func(r chi.Router) {
			r.Get("/", h.ListStories)
			r.Get("/user/{id}", h.GetUserStories)
			r.Group(func(r chi.Router) {
				r.Use(router.auth.RequireAuth)
				r.Post("/text", h.CreateTextStory)
				r.Post("/media", h.CreateMediaStory)
				r.Post("/viewed/{target_id}", h.MarkStoriesViewed)
				r.Put("/{id}", h.UpdateStory)
				r.Delete("/{id}", h.DeleteStory)
			})
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Post("/view/{story_id}", h.Interact(models.ActionView))
			r.Post("/skip/{target_id}", h.Interact(models.ActionSkip))
			r.Post("/react/{story_id}", h.Interact(models.ActionReact))
			r.Post("/share/{story_id}", h.Interact(models.ActionShare))
			r.Post("/repost/{story_id}", h.Interact(models.ActionRepost))
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(router.auth.RequireAuth)
			r.Get("/", h.Recommendations)
			r.Get("/signature", h.SignatureSuggestions)
		})

		r.Post("/discover", h.Discover)
	})

	return r
}

// noDirListing hides directory indexes of the media directory.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			respondError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
