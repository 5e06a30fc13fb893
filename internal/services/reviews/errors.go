package reviews

import (
	"fmt"

	"yamdb/proj/internal/domain/errs"
)

var (
	ErrTitleNotFound   = fmt.Errorf("title %w", errs.ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("review %w", errs.ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", errs.ErrNotFound)

	ErrAlreadyReviewed = errs.NewConflict("title", "You have already reviewed this title")
)
