// Package catalog manages the flat name+slug taxonomies titles are filed under:
// categories and genres.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/slug"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/storage"
)

const MaxNameLength = 256

type Storage[T any] interface {
	Insert(ctx context.Context, name, slug string) (*T, error)
	List(ctx context.Context, search string, f filters.Filters) ([]T, int, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type TaxonomyService[T any] struct {
	log         *slog.Logger
	kind        string
	storage     Storage[T]
	errNotFound error
	errConflict error
}

func NewCategories(log *slog.Logger, storage Storage[models.Category]) *TaxonomyService[models.Category] {
	return &TaxonomyService[models.Category]{
		log:         log,
		kind:        "category",
		storage:     storage,
		errNotFound: ErrCategoryNotFound,
		errConflict: ErrCategorySlugTaken,
	}
}

func NewGenres(log *slog.Logger, storage Storage[models.Genre]) *TaxonomyService[models.Genre] {
	return &TaxonomyService[models.Genre]{
		log:         log,
		kind:        "genre",
		storage:     storage,
		errNotFound: ErrGenreNotFound,
		errConflict: ErrGenreSlugTaken,
	}
}

// Create stores a new entry. An empty slug is derived from the name.
func (s *TaxonomyService[T]) Create(ctx context.Context, name, slugValue string) (*T, error) {
	const op = "catalog.TaxonomyService.Create"
	log := s.log.With("op", op, "kind", s.kind, "name", name, "slug", slugValue)
	if slugValue == "" {
		slugValue = slug.From(name)
	}
	err := validator.Check(
		validator.NotBlank("name", name),
		func() (string, string) {
			if utf8.RuneCountInString(name) > MaxNameLength {
				return "name", "Value is too long"
			}
			return "", ""
		},
		func() (string, string) {
			if !slug.IsValid(slugValue) {
				return "slug", "Value must contain only latin letters, digits, hyphens and underscores"
			}
			return "", ""
		},
	)
	if err != nil {
		return nil, err
	}
	item, err := s.storage.Insert(ctx, name, slugValue)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("slug already taken")
			return nil, s.errConflict
		}
		log.Error("Error inserting "+s.kind, "errMsg", err.Error())
		return nil, err
	}
	return item, nil
}

func (s *TaxonomyService[T]) List(ctx context.Context, search string, f filters.Filters) ([]T, int, error) {
	const op = "catalog.TaxonomyService.List"
	log := s.log.With("op", op, "kind", s.kind)
	items, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		log.Error("Error listing "+s.kind, "errMsg", err.Error())
		return nil, 0, err
	}
	return items, total, nil
}

func (s *TaxonomyService[T]) Delete(ctx context.Context, slugValue string) error {
	const op = "catalog.TaxonomyService.Delete"
	log := s.log.With("op", op, "kind", s.kind, "slug", slugValue)
	if err := s.storage.DeleteBySlug(ctx, slugValue); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info(s.kind + " not found")
			return s.errNotFound
		}
		log.Error("Error deleting "+s.kind, "errMsg", err.Error())
		return err
	}
	return nil
}

