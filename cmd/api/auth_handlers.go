package main

import (
	"net/http"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,max=150,username"`
		Email    string `json:"email" validate:"required,email,max=254"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	data, err := app.services.Auth.Signup(r.Context(), req.Username, req.Email)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, data)
}

func (app *Application) issueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username         string `json:"username" validate:"required,max=150"`
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}
	if !app.decodeBody(w, r, &req) {
		return
	}
	token, err := app.services.Auth.IssueToken(r.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, token)
}
