package main

import (
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/services/titles"
)

type titleRequest struct {
	Name        *string  `json:"name" validate:"omitnil,max=256"`
	Year        *int32   `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genre" validate:"omitempty,dive,required"`
}

func (req titleRequest) input() titles.TitleInput {
	return titles.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genres,
	}
}

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	f, _, ok := app.readPage(w, r)
	if !ok {
		return
	}
	var tf filters.TitleFilter
	if fieldErrs := app.decoder.Decode(&tf, r.URL.Query()); fieldErrs != nil {
		app.Http.InvalidData(w, r, fieldErrs)
		return
	}
	items, total, err := app.services.Titles.List(r.Context(), tf, f)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, filters.NewPage(items, total, f))
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	title, err := app.services.Titles.Get(r.Context(), id)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, title)
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	title, err := app.services.Titles.Create(r.Context(), req.input())
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Created(w, r, title)
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var req titleRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	title, err := app.services.Titles.Update(r.Context(), id, req.input())
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, title)
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	if err := app.services.Titles.Delete(r.Context(), id); err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
