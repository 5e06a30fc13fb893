package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(body, &data))
	return data
}

func TestHealthcheck(t *testing.T) {
	app := NewTestApplication(nil, t)
	rec := app.do(t, http.MethodGet, "/api/v1/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "available", decodeBody(t, rec.Body.Bytes())["status"])
}

func TestNotFoundRoute(t *testing.T) {
	app := NewTestApplication(nil, t)
	rec := app.do(t, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFullReplaceIsNotAllowed(t *testing.T) {
	app := NewTestApplication(nil, t)
	paths := []string{
		"/api/v1/titles/1",
		"/api/v1/titles/1/reviews/2",
		"/api/v1/titles/1/reviews/2/comments/3",
		"/api/v1/users/someone",
	}
	for _, path := range paths {
		rec := app.do(t, http.MethodPut, path, `{}`, testAdmin)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestCategoriesEndpoints(t *testing.T) {
	app := NewTestApplication(nil, t)

	rec := app.do(t, http.MethodPost, "/api/v1/categories/", `{"name": "Books"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/categories/", `{"name": "Books"}`, testUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/categories/", `{"name": "Books"}`, testAdmin)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "books", decodeBody(t, rec.Body.Bytes())["slug"])

	rec = app.do(t, http.MethodPost, "/api/v1/categories/", `{"name": "Books", "slug": "books"}`, testAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errors, ok := decodeBody(t, rec.Body.Bytes())["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errors, "slug")

	rec = app.do(t, http.MethodPost, "/api/v1/categories/", `{"name": "Books", "slug": "not a slug"}`, testAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/categories/", `{"title": "Books"}`, testAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/categories/?page_size=500", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody(t, rec.Body.Bytes())
	assert.EqualValues(t, 1, page["count"])
	assert.EqualValues(t, 100, page["page_size"])
	assert.Len(t, page["results"], 1)

	rec = app.do(t, http.MethodGet, "/api/v1/categories/?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodDelete, "/api/v1/categories/books", "", testUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(t, http.MethodDelete, "/api/v1/categories/books", "", testAdmin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = app.do(t, http.MethodDelete, "/api/v1/categories/books", "", testAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersEndpointsRequireAuth(t *testing.T) {
	app := NewTestApplication(nil, t)

	rec := app.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/users/me", "", testUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", decodeBody(t, rec.Body.Bytes())["username"])

	rec = app.do(t, http.MethodGet, "/api/v1/users/", "", testUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
