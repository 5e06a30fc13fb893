package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/storage"
)

const (
	MaxUsernameLength = 150
	MaxEmailLength    = 254
	MaxNameLength     = 150
)

type UserStorage interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error)
}

type UserService struct {
	log     *slog.Logger
	storage UserStorage
}

func New(log *slog.Logger, storage UserStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

// UserInput is a partial user. Nil fields are not supplied.
type UserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

func maxLength(field string, value *string, max int) validator.Rule {
	return func() (string, string) {
		if value != nil && utf8.RuneCountInString(*value) > max {
			return field, fmt.Sprintf("Value is too long (max %d characters)", max)
		}
		return "", ""
	}
}

func inputRules(input UserInput) []validator.Rule {
	rules := []validator.Rule{
		maxLength("username", input.Username, MaxUsernameLength),
		maxLength("email", input.Email, MaxEmailLength),
		maxLength("first_name", input.FirstName, MaxNameLength),
		maxLength("last_name", input.LastName, MaxNameLength),
	}
	if input.Username != nil {
		rules = append(rules, validator.Username("username", *input.Username))
	}
	if input.Email != nil {
		rules = append(rules, validator.NotBlank("email", *input.Email))
	}
	if input.Role != nil {
		role := *input.Role
		rules = append(rules, func() (string, string) {
			if !role.IsValid() {
				return "role", "Role must be one of: user, moderator, admin"
			}
			return "", ""
		})
	}
	return rules
}

func apply(user *models.User, input UserInput) {
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
}

// checkUnique reports a conflict when username or email already belongs to a user other than selfID.
func (s *UserService) checkUnique(ctx context.Context, selfID int64, input UserInput) error {
	if input.Username != nil {
		other, err := s.storage.GetByUsername(ctx, *input.Username)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if other != nil && other.ID != selfID {
			return ErrUsernameTaken
		}
	}
	if input.Email != nil {
		other, err := s.storage.GetByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if other != nil && other.ID != selfID {
			return ErrEmailTaken
		}
	}
	return nil
}

func (s *UserService) List(ctx context.Context, search string, f filters.Filters) ([]models.User, int, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op)
	users, total, err := s.storage.List(ctx, search, f)
	if err != nil {
		log.Error("Error listing users", "errMsg", err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

// Create adds an already active user on behalf of an admin.
func (s *UserService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op)
	rules := []validator.Rule{
		func() (string, string) {
			if input.Username == nil {
				return "username", "This field is required"
			}
			return "", ""
		},
		func() (string, string) {
			if input.Email == nil {
				return "email", "This field is required"
			}
			return "", ""
		},
	}
	if err := validator.Check(append(rules, inputRules(input)...)...); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, 0, input); err != nil {
		return nil, err
	}
	user := &models.User{Role: models.RoleUser, IsActive: true}
	apply(user, input)
	created, err := s.storage.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user inserted concurrently")
			return nil, ErrUsernameTaken
		}
		log.Error("Error inserting user", "errMsg", err.Error())
		return nil, err
	}
	log.Info("user created", "username", created.Username)
	return created, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error("Error getting user", "errMsg", err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, username string, input UserInput) (*models.User, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, user, input)
}

// UpdateMe lets a user edit their own profile. The role can't be changed this way.
func (s *UserService) UpdateMe(ctx context.Context, actor *models.User, input UserInput) (*models.User, error) {
	input.Role = nil
	user, err := s.Get(ctx, actor.Username)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, user, input)
}

func (s *UserService) update(ctx context.Context, user *models.User, input UserInput) (*models.User, error) {
	const op = "users.UserService.update"
	log := s.log.With("op", op, "username", user.Username)
	if err := validator.Check(inputRules(input)...); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, user.ID, input); err != nil {
		return nil, err
	}
	apply(user, input)
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return nil, ErrUsernameTaken
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error("Error updating user", "errMsg", err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.Delete(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error("Error deleting user", "errMsg", err.Error())
		return err
	}
	return nil
}
