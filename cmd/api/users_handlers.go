package main

import (
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/services/users"

	"github.com/go-chi/chi/v5"
)

type userRequest struct {
	Username  *string      `json:"username" validate:"omitnil,max=150,username"`
	Email     *string      `json:"email" validate:"omitnil,email,max=254"`
	FirstName *string      `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string      `json:"last_name" validate:"omitnil,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitnil,oneof=user moderator admin"`
}

func (req userRequest) input() users.UserInput {
	return users.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	f, search, ok := app.readPage(w, r)
	if !ok {
		return
	}
	items, total, err := app.services.Users.List(r.Context(), search, f)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, filters.NewPage(items, total, f))
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	user, err := app.services.Users.Create(r.Context(), req.input())
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Created(w, r, user)
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.services.Users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, user)
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	user, err := app.services.Users.Update(r.Context(), chi.URLParam(r, "username"), req.input())
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, user)
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) getMe(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, app.currentUser(r))
}

func (app *Application) updateMe(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	user, err := app.services.Users.UpdateMe(r.Context(), app.currentUser(r), req.input())
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, user)
}
