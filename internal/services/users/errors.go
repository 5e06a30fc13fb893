package users

import (
	"fmt"

	"yamdb/proj/internal/domain/errs"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", errs.ErrNotFound)

	ErrUsernameTaken = errs.NewConflict("username", "A user with that username already exists")
	ErrEmailTaken    = errs.NewConflict("email", "A user with that email already exists")
)
