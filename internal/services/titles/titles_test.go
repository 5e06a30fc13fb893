package titles

import (
	"context"
	"testing"
	"time"

	"yamdb/proj/internal/domain/errs"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTitles struct {
	nextID int64
	items  map[int64]models.Title
}

func (f *fakeTitles) Get(_ context.Context, id int64) (*models.Title, error) {
	title, ok := f.items[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &title, nil
}

func (f *fakeTitles) List(_ context.Context, tf filters.TitleFilter, _ filters.Filters) ([]models.Title, int, error) {
	var res []models.Title
	for _, title := range f.items {
		if tf.Year == 0 || title.Year == tf.Year {
			res = append(res, title)
		}
	}
	return res, len(res), nil
}

func (f *fakeTitles) Insert(_ context.Context, title *models.Title) (*models.Title, error) {
	f.nextID++
	title.ID = f.nextID
	f.items[title.ID] = *title
	return title, nil
}

func (f *fakeTitles) Update(_ context.Context, title *models.Title, replaceGenres bool) (*models.Title, error) {
	old, ok := f.items[title.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if !replaceGenres {
		title.Genres = old.Genres
	}
	f.items[title.ID] = *title
	return title, nil
}

func (f *fakeTitles) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeTaxonomies struct {
	categories map[string]models.Category
	genres     map[string]models.Genre
}

func (f *fakeTaxonomies) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	c, ok := f.categories[slug]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (f *fakeTaxonomies) GetBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	var res []models.Genre
	for _, s := range slugs {
		if g, ok := f.genres[s]; ok {
			res = append(res, g)
		}
	}
	return res, nil
}

func newTestService() (*TitleService, *fakeTitles) {
	store := &fakeTitles{items: make(map[int64]models.Title)}
	tax := &fakeTaxonomies{
		categories: map[string]models.Category{
			"sci-fi": {ID: 1, Name: "Science fiction", Slug: "sci-fi"},
			"films":  {ID: 2, Name: "Films", Slug: "films"},
		},
		genres: map[string]models.Genre{
			"drama":     {ID: 1, Name: "Drama", Slug: "drama"},
			"adventure": {ID: 2, Name: "Adventure", Slug: "adventure"},
		},
	}
	svc := New(logger.Discard(), store, tax, tax)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, store
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	svc, store := newTestService()
	title, err := svc.Create(context.Background(), TitleInput{
		Name:     ptr("Dune"),
		Year:     ptr(int32(1965)),
		Category: ptr("sci-fi"),
		Genres:   []string{"adventure", "drama", "adventure"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune", title.Name)
	require.NotNil(t, title.Category)
	assert.Equal(t, int64(1), title.Category.ID)
	assert.Len(t, title.Genres, 2)
	assert.Len(t, store.items, 1)
}

func TestCreateValidation(t *testing.T) {
	valid := func() TitleInput {
		return TitleInput{Name: ptr("Dune"), Year: ptr(int32(1965)), Genres: []string{"drama"}}
	}
	testCases := []struct {
		name   string
		modify func(in *TitleInput)
		field  string
	}{
		{"missing name", func(in *TitleInput) { in.Name = nil }, "name"},
		{"blank name", func(in *TitleInput) { in.Name = ptr(" ") }, "name"},
		{"missing year", func(in *TitleInput) { in.Year = nil }, "year"},
		{"future year", func(in *TitleInput) { in.Year = ptr(int32(2025)) }, "year"},
		{"missing genres", func(in *TitleInput) { in.Genres = nil }, "genre"},
		{"empty genres", func(in *TitleInput) { in.Genres = []string{} }, "genre"},
		{"unknown genre", func(in *TitleInput) { in.Genres = []string{"drama", "horror"} }, "genre"},
		{"unknown category", func(in *TitleInput) { in.Category = ptr("books") }, "category"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newTestService()
			input := valid()
			tc.modify(&input)
			_, err := svc.Create(context.Background(), input)
			vErr, ok := errs.IsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, vErr.Fields, tc.field)
			assert.Empty(t, store.items)
		})
	}
}

func TestCurrentYearAccepted(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), TitleInput{
		Name: ptr("Fresh"), Year: ptr(int32(2024)), Genres: []string{"drama"},
	})
	assert.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	title, err := svc.Create(ctx, TitleInput{
		Name: ptr("Dune"), Year: ptr(int32(1965)), Category: ptr("sci-fi"), Genres: []string{"drama"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, title.ID, TitleInput{Description: ptr("Spice")})
	require.NoError(t, err)
	assert.Equal(t, "Dune", updated.Name)
	assert.Equal(t, "Spice", updated.Description)
	assert.Len(t, updated.Genres, 1)
	require.NotNil(t, updated.Category)

	updated, err = svc.Update(ctx, title.ID, TitleInput{Category: ptr(""), Genres: []string{"adventure"}})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)
	require.Len(t, updated.Genres, 1)
	assert.Equal(t, "adventure", updated.Genres[0].Slug)

	_, err = svc.Update(ctx, title.ID, TitleInput{Genres: []string{}})
	_, ok := errs.IsValidation(err)
	assert.True(t, ok)

	_, err = svc.Update(ctx, 999, TitleInput{Name: ptr("Ghost")})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, TitleInput{Name: ptr("Dune"), Year: ptr(int32(1965)), Genres: []string{"drama"}})
	require.NoError(t, err)

	titles, total, err := svc.List(ctx, filters.TitleFilter{Year: 1965}, filters.Filters{Sort: "-year"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, titles, 1)

	_, _, err = svc.List(ctx, filters.TitleFilter{}, filters.Filters{Sort: "rating"})
	vErr, ok := errs.IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "ordering")
}

func TestDelete(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	title, err := svc.Create(ctx, TitleInput{Name: ptr("Dune"), Year: ptr(int32(1965)), Genres: []string{"drama"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, title.ID))
	assert.Empty(t, store.items)
	assert.ErrorIs(t, svc.Delete(ctx, title.ID), errs.ErrNotFound)
}
