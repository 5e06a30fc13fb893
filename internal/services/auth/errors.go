package auth

import (
	"fmt"

	"yamdb/proj/internal/domain/errs"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", errs.ErrNotFound)
	ErrInvalidToken = fmt.Errorf("invalid or expired token: %w", errs.ErrUnauthenticated)
	ErrInactiveUser = fmt.Errorf("user is not activated: %w", errs.ErrUnauthenticated)

	ErrInvalidCode   = errs.FieldError("confirmation_code", "Invalid or expired confirmation code")
	ErrUsernameTaken = errs.FieldError("email", "A user with this username is registered with another email")
	ErrEmailTaken    = errs.FieldError("username", "A user with this email is registered with another username")
)
