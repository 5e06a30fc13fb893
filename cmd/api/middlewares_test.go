package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/permissions"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequiredAuthenticatedUser(t *testing.T) {
	app := NewTestApplication(nil, t)
	t.Run("authenticated", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := withUser(httptest.NewRequest(http.MethodGet, "/", nil), testUser)
		app.requireAuthenticatedUser(okHandler).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("anonymous", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := withUser(httptest.NewRequest(http.MethodGet, "/", nil), models.AnonymousUser)
		app.requireAuthenticatedUser(okHandler).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
	t.Run("no user in context", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		app.requireAuthenticatedUser(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthenticate(t *testing.T) {
	app := NewTestApplication(nil, t)
	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = app.currentUser(r)
		w.WriteHeader(http.StatusOK)
	})
	testCases := []struct {
		name     string
		header   string
		expected int
		user     *models.User
	}{
		{"no header", "", http.StatusOK, models.AnonymousUser},
		{"valid token", "Bearer " + app.token(t, testUser), http.StatusOK, testUser},
		{"malformed header", "Token abc", http.StatusBadRequest, nil},
		{"garbage token", "Bearer abc", http.StatusUnauthorized, nil},
		{"inactive user", "Bearer " + app.token(t, testInactive), http.StatusUnauthorized, nil},
		{"unknown user", "Bearer " + app.token(t, &models.User{ID: 99}), http.StatusUnauthorized, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				request.Header.Set("Authorization", tc.header)
			}
			app.Authenticate(next).ServeHTTP(recorder, request)
			assert.Equal(t, tc.expected, recorder.Code)
			if tc.user == nil {
				assert.Nil(t, seen)
				return
			}
			if assert.NotNil(t, seen) {
				assert.Equal(t, tc.user.ID, seen.ID)
			}
		})
	}
}

func TestPermit(t *testing.T) {
	app := NewTestApplication(nil, t)
	testCases := []struct {
		name     string
		method   string
		resource permissions.Resource
		user     *models.User
		expected int
	}{
		{"anonymous reads titles", http.MethodGet, permissions.Title, models.AnonymousUser, http.StatusOK},
		{"anonymous writes titles", http.MethodPost, permissions.Title, models.AnonymousUser, http.StatusUnauthorized},
		{"user writes titles", http.MethodPost, permissions.Title, testUser, http.StatusForbidden},
		{"admin writes titles", http.MethodDelete, permissions.Title, testAdmin, http.StatusOK},
		{"user writes reviews", http.MethodPost, permissions.Review, testUser, http.StatusOK},
		{"anonymous writes comments", http.MethodPost, permissions.Comment, models.AnonymousUser, http.StatusUnauthorized},
		{"anonymous reads users", http.MethodGet, permissions.User, models.AnonymousUser, http.StatusUnauthorized},
		{"user reads users", http.MethodGet, permissions.User, testUser, http.StatusForbidden},
		{"admin reads users", http.MethodGet, permissions.User, testAdmin, http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := withUser(httptest.NewRequest(tc.method, "/", nil), tc.user)
			app.permit(tc.resource)(okHandler).ServeHTTP(recorder, request)
			assert.Equal(t, tc.expected, recorder.Code)
		})
	}
}

func TestRecoverer(t *testing.T) {
	app := NewTestApplication(nil, t)
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	recorder := httptest.NewRecorder()
	app.Recoverer(panicking).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRateLimiter(t *testing.T) {
	app := NewTestApplication(&config.Config{
		Limiter: config.Limiter{Enabled: true, Rps: 1, Burst: 2},
	}, t)
	handler := app.RateLimiter(okHandler)
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
