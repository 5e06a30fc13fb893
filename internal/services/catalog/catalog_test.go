package catalog

import (
	"context"
	"sort"
	"strings"
	"testing"

	"yamdb/proj/internal/domain/errs"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	items map[string]models.Category
}

func (f *fakeCategories) Insert(_ context.Context, name, slug string) (*models.Category, error) {
	if _, ok := f.items[slug]; ok {
		return nil, storage.ErrConflict
	}
	c := models.Category{ID: int64(len(f.items) + 1), Name: name, Slug: slug}
	f.items[slug] = c
	return &c, nil
}

func (f *fakeCategories) List(_ context.Context, search string, _ filters.Filters) ([]models.Category, int, error) {
	var res []models.Category
	for _, c := range f.items {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, len(res), nil
}

func (f *fakeCategories) DeleteBySlug(_ context.Context, slug string) error {
	if _, ok := f.items[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(f.items, slug)
	return nil
}

func newCategories() (*TaxonomyService[models.Category], *fakeCategories) {
	store := &fakeCategories{items: make(map[string]models.Category)}
	return NewCategories(logger.Discard(), store), store
}

func TestCreate(t *testing.T) {
	svc, store := newCategories()
	ctx := context.Background()

	created, err := svc.Create(ctx, "Science Fiction", "")
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", created.Slug)

	created, err = svc.Create(ctx, "Films", "movies")
	require.NoError(t, err)
	assert.Equal(t, "movies", created.Slug)
	assert.Len(t, store.items, 2)

	_, err = svc.Create(ctx, "Sci fi", "science-fiction")
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.ErrorIs(t, err, ErrCategorySlugTaken)
	assert.Len(t, store.items, 2)
}

func TestCreateValidation(t *testing.T) {
	svc, store := newCategories()
	testCases := []struct {
		name  string
		input string
		slug  string
		field string
	}{
		{"blank name", "  ", "blank", "name"},
		{"too long name", strings.Repeat("a", MaxNameLength+1), "long", "name"},
		{"bad slug", "Books", "Books & more", "slug"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input, tc.slug)
			vErr, ok := errs.IsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, vErr.Fields, tc.field)
		})
	}
	assert.Empty(t, store.items)
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newCategories()
	ctx := context.Background()
	for _, name := range []string{"Books", "Films", "Music"} {
		_, err := svc.Create(ctx, name, "")
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, "fil", filters.Filters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "films", items[0].Slug)

	require.NoError(t, svc.Delete(ctx, "films"))
	err = svc.Delete(ctx, "films")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
