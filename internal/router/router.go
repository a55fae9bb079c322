// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Read endpoints are public; mutating endpoints sit behind
// the admin bearer-key guard.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"preplab/internal/handlers"
	"preplab/internal/middleware"
)

// Deps carries everything the router wires together.
type Deps struct {
	Categories *handlers.Categories
	Labels     *handlers.Labels
	Browse     *handlers.Browse
	Content    *handlers.Content

	// AdminKeyHash is the bcrypt hash guarding mutating routes.
	AdminKeyHash string
	// Limiter rate-limits all API routes per client IP. Optional.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	// Health check — no auth.
	r.Get("/health", healthHandler)

	requireAdmin := middleware.RequireAdminKey(d.AdminKeyHash)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/slug/{slug}", d.Categories.BySlug)
			r.Get("/{id}", d.Categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", d.Categories.Create)
				r.Patch("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
				r.Post("/{id}/toggle", d.Categories.Toggle)
			})
		})

		r.Route("/labels", func(r chi.Router) {
			r.Get("/", d.Labels.ListForCategory)
			r.Get("/search", d.Labels.Search)
			r.Get("/availability", d.Labels.Availability)
			r.Get("/{id}", d.Labels.Get)
			r.Get("/{id}/children", d.Labels.Children)
			r.Get("/{id}/count", d.Browse.Count)
			r.Get("/{id}/items", d.Browse.Items)
			r.Get("/{id}/sample", d.Browse.Sample)
			r.Get("/{id}/node", d.Browse.Node)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", d.Labels.Create)
				r.Patch("/{id}", d.Labels.Update)
				r.Delete("/{id}", d.Labels.Delete)
				r.Post("/{id}/toggle", d.Labels.Toggle)
			})
		})

		r.Get("/taxonomy/{category}/{label}", d.Browse.Resolve)

		r.Route("/content", func(r chi.Router) {
			r.Get("/", d.Content.ListByType)
			r.Get("/slug/{slug}", d.Content.BySlug)
			r.Get("/{id}", d.Content.Get)
			r.Get("/{id}/labels", d.Content.Labels)
			r.Get("/{id}/html", d.Content.HTML)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", d.Content.Create)
				r.Patch("/{id}", d.Content.Update)
				r.Delete("/{id}", d.Content.Delete)
				r.Put("/{id}/labels", d.Content.SetLabels)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
