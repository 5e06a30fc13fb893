package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/proj/internal/domain/errs"

	"github.com/stretchr/testify/assert"
)

func TestHttpError(t *testing.T) {
	app := NewTestApplication(nil, t)
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", errs.FieldError("year", "too big"), http.StatusBadRequest},
		{"conflict with field", fmt.Errorf("create: %w", errs.NewConflict("slug", "taken")), http.StatusBadRequest},
		{"bare conflict", errs.ErrConflict, http.StatusBadRequest},
		{"not found", fmt.Errorf("title %w", errs.ErrNotFound), http.StatusNotFound},
		{"unauthenticated", errs.ErrUnauthenticated, http.StatusUnauthorized},
		{"permission", errs.ErrPermissionDenied, http.StatusForbidden},
		{"method", errs.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"unknown", errors.New("db is down"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			app.Http.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.expected, recorder.Code)
		})
	}
}

func TestServerErrorHidesDetails(t *testing.T) {
	app := NewTestApplication(nil, t)
	recorder := httptest.NewRecorder()
	app.Http.ServerError(recorder, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("secret dsn"), "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "secret dsn")
}
