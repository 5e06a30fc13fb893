package titles

import (
	"fmt"

	"yamdb/proj/internal/domain/errs"
)

var ErrTitleNotFound = fmt.Errorf("title %w", errs.ErrNotFound)
