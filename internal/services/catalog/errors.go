package catalog

import (
	"fmt"

	"yamdb/proj/internal/domain/errs"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", errs.ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", errs.ErrNotFound)

	ErrCategorySlugTaken = errs.NewConflict("slug", "Category with this slug already exists")
	ErrGenreSlugTaken    = errs.NewConflict("slug", "Genre with this slug already exists")
)
