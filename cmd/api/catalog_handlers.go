package main

import (
	"context"
	"net/http"

	"yamdb/proj/internal/domain/filters"

	"github.com/go-chi/chi/v5"
)

// taxonomy is what categories and genres share.
type taxonomy[T any] interface {
	Create(ctx context.Context, name, slug string) (*T, error)
	List(ctx context.Context, search string, f filters.Filters) ([]T, int, error)
	Delete(ctx context.Context, slug string) error
}

type createTaxonomyRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

func listTaxonomy[T any](app *Application, svc taxonomy[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, search, ok := app.readPage(w, r)
		if !ok {
			return
		}
		items, total, err := svc.List(r.Context(), search, f)
		if err != nil {
			app.Http.Error(w, r, err)
			return
		}
		app.Http.Ok(w, r, filters.NewPage(items, total, f))
	}
}

func createTaxonomy[T any](app *Application, svc taxonomy[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTaxonomyRequest
		if !app.decodeBody(w, r, &req) {
			return
		}
		item, err := svc.Create(r.Context(), req.Name, req.Slug)
		if err != nil {
			app.Http.Error(w, r, err)
			return
		}
		app.Http.Created(w, r, item)
	}
}

func deleteTaxonomy[T any](app *Application, svc taxonomy[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
			app.Http.Error(w, r, err)
			return
		}
		app.Http.NoContent(w, r)
	}
}
