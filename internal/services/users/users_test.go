package users

import (
	"context"
	"testing"

	"yamdb/proj/internal/domain/errs"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	nextID int64
	items  map[int64]models.User
}

func (f *fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	for _, u := range f.items {
		if match(u) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f *fakeUsers) Insert(_ context.Context, user *models.User) (*models.User, error) {
	f.nextID++
	user.ID = f.nextID
	f.items[user.ID] = *user
	return user, nil
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.items[user.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	f.items[user.ID] = *user
	return user, nil
}

func (f *fakeUsers) Delete(_ context.Context, username string) error {
	u, err := f.find(func(u models.User) bool { return u.Username == username })
	if err != nil {
		return err
	}
	delete(f.items, u.ID)
	return nil
}

func (f *fakeUsers) List(_ context.Context, _ string, _ filters.Filters) ([]models.User, int, error) {
	res := make([]models.User, 0, len(f.items))
	for _, u := range f.items {
		res = append(res, u)
	}
	return res, len(res), nil
}

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) (*UserService, *fakeUsers) {
	t.Helper()
	store := &fakeUsers{items: make(map[int64]models.User)}
	svc := New(logger.Discard(), store)
	_, err := svc.Create(context.Background(), UserInput{Username: ptr("alice"), Email: ptr("alice@example.com")})
	require.NoError(t, err)
	return svc, store
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{
		Username: ptr("bob"),
		Email:    ptr("bob@example.com"),
		Role:     ptr(models.RoleModerator),
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.Equal(t, models.RoleModerator, user.Role)

	_, err = svc.Create(ctx, UserInput{Username: ptr("alice"), Email: ptr("new@example.com")})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Create(ctx, UserInput{Username: ptr("carol"), Email: ptr("alice@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	testCases := []struct {
		name  string
		input UserInput
		field string
	}{
		{"missing username", UserInput{Email: ptr("x@example.com")}, "username"},
		{"missing email", UserInput{Username: ptr("x")}, "email"},
		{"reserved username", UserInput{Username: ptr("Me"), Email: ptr("me@example.com")}, "username"},
		{"bad role", UserInput{Username: ptr("x"), Email: ptr("x@example.com"), Role: ptr(models.Role("root"))}, "role"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			vErr, ok := errs.IsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, vErr.Fields, tc.field)
		})
	}
}

func TestUpdateMeIgnoresRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice, err := svc.Get(ctx, "alice")
	require.NoError(t, err)

	updated, err := svc.UpdateMe(ctx, alice, UserInput{Bio: ptr("reader"), Role: ptr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, "reader", updated.Bio)
	assert.Equal(t, models.RoleUser, updated.Role)

	updated, err = svc.Update(ctx, "alice", UserInput{Role: ptr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUpdateKeepsOwnUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Update(ctx, "alice", UserInput{Username: ptr("alice"), FirstName: ptr("Alice")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, UserInput{Username: ptr("bob"), Email: ptr("bob@example.com")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "bob", UserInput{Username: ptr("alice")})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Delete(ctx, "alice"))
	assert.Empty(t, store.items)
	assert.ErrorIs(t, svc.Delete(ctx, "alice"), ErrUserNotFound)
	_, err := svc.Get(ctx, "alice")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
