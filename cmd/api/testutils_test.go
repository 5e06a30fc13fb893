package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/jwt"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/catalog"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers map[int64]*models.User

func (f fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f fakeUsers) Insert(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = int64(len(f) + 1)
	f[user.ID] = user
	return user, nil
}

func (f fakeUsers) Activate(_ context.Context, id int64) error {
	u, ok := f[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.IsActive = true
	return nil
}

type fakeCategories struct {
	items []models.Category
}

func (f *fakeCategories) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			return nil, storage.ErrConflict
		}
	}
	c := models.Category{ID: int64(len(f.items) + 1), Name: name, Slug: slug}
	f.items = append(f.items, c)
	return &c, nil
}

func (f *fakeCategories) List(_ context.Context, _ string, _ filters.Filters) ([]models.Category, int, error) {
	return f.items, len(f.items), nil
}

func (f *fakeCategories) DeleteBySlug(_ context.Context, slug string) error {
	for i, c := range f.items {
		if c.Slug == slug {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

var (
	testAdmin    = &models.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	testUser     = &models.User{ID: 2, Username: "user", Email: "user@example.com", Role: models.RoleUser, IsActive: true}
	testInactive = &models.User{ID: 3, Username: "new", Email: "new@example.com", Role: models.RoleUser}
)

type testApp struct {
	*Application
	tokens *jwt.TokenManager
}

// NewTestApplication wires an Application with in-memory storages.
// Services that a test does not set up stay nil.
func NewTestApplication(cfg *config.Config, t *testing.T) *testApp {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{
			AppSecret:  testSecret,
			Pagination: config.Pagination{DefaultPageSize: 10, MaxPageSize: 100},
		}
	}
	log := logger.Discard()
	tokens := jwt.New(testSecret, time.Hour)
	users := fakeUsers{}
	for _, u := range []*models.User{testAdmin, testUser, testInactive} {
		cp := *u
		users[u.ID] = &cp
	}
	svcs := &services.Services{
		Auth:       auth.New(log, nil, users, nil, tokens, nil, time.Hour),
		Categories: catalog.NewCategories(log, &fakeCategories{}),
	}
	return &testApp{Application: NewApplication(cfg, log, svcs), tokens: tokens}
}

func (app *testApp) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := app.tokens.Issue(user.ID)
	require.NoError(t, err)
	return token
}

// do sends a request through the full router, authenticated as user unless user is nil.
func (app *testApp) do(t *testing.T, method, path, body string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+app.token(t, user))
	}
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, req)
	return rec
}

func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), CtxKeyUser, user))
}
