package main

import (
	"net/http"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/permissions"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.methodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.issueToken)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Use(app.permit(permissions.Category))
			r.Get("/", listTaxonomy[models.Category](app, app.services.Categories))
			r.Post("/", createTaxonomy[models.Category](app, app.services.Categories))
			r.Delete("/{slug}", deleteTaxonomy[models.Category](app, app.services.Categories))
		})
		r.Route("/genres", func(r chi.Router) {
			r.Use(app.permit(permissions.Genre))
			r.Get("/", listTaxonomy[models.Genre](app, app.services.Genres))
			r.Post("/", createTaxonomy[models.Genre](app, app.services.Genres))
			r.Delete("/{slug}", deleteTaxonomy[models.Genre](app, app.services.Genres))
		})
		r.Route("/titles", func(r chi.Router) {
			r.With(app.permit(permissions.Title)).Group(func(r chi.Router) {
				r.Get("/", app.listTitles)
				r.Post("/", app.createTitle)
				r.Get("/{title_id}", app.getTitle)
				r.Patch("/{title_id}", app.updateTitle)
				r.Delete("/{title_id}", app.deleteTitle)
			})
			r.Route("/{title_id}/reviews", func(r chi.Router) {
				r.With(app.permit(permissions.Review)).Group(func(r chi.Router) {
					r.Get("/", app.listReviews)
					r.Post("/", app.createReview)
					r.Get("/{review_id}", app.getReview)
					r.Patch("/{review_id}", app.updateReview)
					r.Delete("/{review_id}", app.deleteReview)
				})
				r.Route("/{review_id}/comments", func(r chi.Router) {
					r.Use(app.permit(permissions.Comment))
					r.Get("/", app.listComments)
					r.Post("/", app.createComment)
					r.Get("/{comment_id}", app.getComment)
					r.Patch("/{comment_id}", app.updateComment)
					r.Delete("/{comment_id}", app.deleteComment)
				})
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.With(app.requireAuthenticatedUser).Get("/me", app.getMe)
			r.With(app.requireAuthenticatedUser).Patch("/me", app.updateMe)
			r.With(app.permit(permissions.User)).Group(func(r chi.Router) {
				r.Get("/", app.listUsers)
				r.Post("/", app.createUser)
				r.Get("/{username}", app.getUser)
				r.Patch("/{username}", app.updateUser)
				r.Delete("/{username}", app.deleteUser)
			})
		})
	})
	return router
}
