package main

import (
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/services/reviews"
)

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// reviewPath extracts the title and review ids of a nested route.
func (app *Application) reviewPath(w http.ResponseWriter, r *http.Request) (titleID, reviewID int64, ok bool) {
	if titleID, ok = app.extractIDParam(w, r, "title_id"); !ok {
		return
	}
	reviewID, ok = app.extractIDParam(w, r, "review_id")
	return
}

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	f, _, ok := app.readPage(w, r)
	if !ok {
		return
	}
	items, total, err := app.services.Reviews.ListReviews(r.Context(), titleID, f)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, filters.NewPage(items, total, f))
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "title_id")
	if !ok {
		return
	}
	var req reviewRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	review, err := app.services.Reviews.CreateReview(
		r.Context(), app.currentUser(r), titleID, reviews.ReviewInput{Text: req.Text, Score: req.Score},
	)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Created(w, r, review)
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, review)
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	review, err := app.services.Reviews.UpdateReview(
		r.Context(), app.currentUser(r), titleID, reviewID, reviews.ReviewInput{Text: req.Text, Score: req.Score},
	)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, review)
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	if err := app.services.Reviews.DeleteReview(r.Context(), app.currentUser(r), titleID, reviewID); err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	f, _, ok := app.readPage(w, r)
	if !ok {
		return
	}
	items, total, err := app.services.Reviews.ListComments(r.Context(), titleID, reviewID, f)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, filters.NewPage(items, total, f))
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	var text string
	if req.Text != nil {
		text = *req.Text
	}
	comment, err := app.services.Reviews.CreateComment(r.Context(), app.currentUser(r), titleID, reviewID, text)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Created(w, r, comment)
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, comment)
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	var req commentRequest
	if !app.decodeBody(w, r, &req) {
		return
	}
	comment, err := app.services.Reviews.UpdateComment(
		r.Context(), app.currentUser(r), titleID, reviewID, commentID, req.Text,
	)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.Ok(w, r, comment)
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := app.reviewPath(w, r)
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "comment_id")
	if !ok {
		return
	}
	err := app.services.Reviews.DeleteComment(r.Context(), app.currentUser(r), titleID, reviewID, commentID)
	if err != nil {
		app.Http.Error(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}
