package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/validator"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, param string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		app.Http.NotFound(w, r, "Invalid "+param)
		return 0, false
	}
	return id, true
}

// currentUser returns the actor stored by Authenticate, AnonymousUser if there is none.
func (app *Application) currentUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(CtxKeyUser).(*models.User)
	if !ok || user == nil {
		return models.AnonymousUser
	}
	return user
}

// decodeBody reads the JSON body into dst and runs struct validation on it.
// It writes the error response itself and reports whether the handler may go on.
func (app *Application) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := app.readJSON(w, r, dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return false
	}
	if fieldErrs := validator.ValidateStruct(app.validator, dst); fieldErrs != nil {
		app.Http.InvalidData(w, r, fieldErrs)
		return false
	}
	return true
}

type pageQuery struct {
	Page     int    `schema:"page"`
	PageSize int    `schema:"page_size"`
	Ordering string `schema:"ordering"`
	Search   string `schema:"search"`
}

// readPage decodes paging, ordering and free text search from the query string.
func (app *Application) readPage(w http.ResponseWriter, r *http.Request) (filters.Filters, string, bool) {
	var q pageQuery
	if fieldErrs := app.decoder.Decode(&q, r.URL.Query()); fieldErrs != nil {
		app.Http.InvalidData(w, r, fieldErrs)
		return filters.Filters{}, "", false
	}
	f := filters.Filters{Page: q.Page, PageSize: q.PageSize, Sort: q.Ordering}
	f.Normalize(app.cfg.Pagination.DefaultPageSize, app.cfg.Pagination.MaxPageSize)
	return f, q.Search, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
