package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const confirmationCodeTmpl = "confirmation_code.tmpl"

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type UserStorage interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Activate(ctx context.Context, id int64) error
}

// CodeStorage keeps hashed confirmation codes, one live code per user.
type CodeStorage interface {
	Set(ctx context.Context, userID int64, codeHash []byte) error
	Get(ctx context.Context, userID int64) ([]byte, error)
	// Delete returns storage.ErrNotFound when no code was left to consume.
	Delete(ctx context.Context, userID int64) error
}

type TokenProvider interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

type AuthService struct {
	log          *slog.Logger
	Mailer       MailProvider
	users        UserStorage
	codes        CodeStorage
	tokens       TokenProvider
	taskExecutor TaskExecutor
	codeTTL      time.Duration
	hashCost     int
	newCode      func() string
}

func New(
	log *slog.Logger,
	mailer MailProvider,
	users UserStorage,
	codes CodeStorage,
	tokens TokenProvider,
	taskExecutor TaskExecutor,
	codeTTL time.Duration,
) *AuthService {
	return &AuthService{
		log:          log,
		Mailer:       mailer,
		users:        users,
		codes:        codes,
		tokens:       tokens,
		taskExecutor: taskExecutor,
		codeTTL:      codeTTL,
		hashCost:     bcrypt.DefaultCost,
		newCode:      uuid.NewString,
	}
}

type SignupData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type confirmationEmailData struct {
	username         string
	confirmationCode string
}

func (a *AuthService) sendConfirmationEmail(email string, data confirmationEmailData) {
	a.log.Info("sending confirmation email")
	err := a.Mailer.Send(
		email,
		confirmationCodeTmpl,
		map[string]any{
			"username":         data.username,
			"confirmationCode": data.confirmationCode,
			"expiresIn":        a.codeTTL.String(),
		})
	if err != nil {
		a.log.Error("Error sending confirmation email", "errMsg", err.Error())
	}
}

// Signup registers an inactive user (or picks up the one with the very same
// username and email) and mails a fresh confirmation code, replacing any previous one.
func (a *AuthService) Signup(ctx context.Context, username, email string) (*SignupData, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "username", username, "email", email)
	if err := validator.Check(validator.Username("username", username)); err != nil {
		return nil, err
	}
	user, err := a.resolveIdentity(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = a.users.Insert(ctx, &models.User{Username: username, Email: email, Role: models.RoleUser})
		if err != nil {
			if !errors.Is(err, storage.ErrConflict) {
				log.Error("Error inserting user", "errMsg", err.Error())
				return nil, err
			}
			// a concurrent signup won the insert, judge against what it stored
			log.Info("user inserted concurrently")
			if user, err = a.resolveIdentity(ctx, username, email); err != nil {
				return nil, err
			}
			if user == nil {
				return nil, ErrUsernameTaken
			}
		}
	}

	code := a.newCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), a.hashCost)
	if err != nil {
		log.Error("Error hashing confirmation code", "errMsg", err.Error())
		return nil, err
	}
	if err := a.codes.Set(ctx, user.ID, hash); err != nil {
		log.Error("Error storing confirmation code", "errMsg", err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendConfirmationEmail(user.Email, confirmationEmailData{
			username:         user.Username,
			confirmationCode: code,
		})
	})
	return &SignupData{Username: user.Username, Email: user.Email}, nil
}

// resolveIdentity returns the existing user owning exactly this username and email,
// nil when neither is taken, or a validation error when they belong to different identities.
func (a *AuthService) resolveIdentity(ctx context.Context, username, email string) (*models.User, error) {
	byUsername, err := a.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if byUsername != nil && byUsername.Email != email {
		return nil, ErrUsernameTaken
	}
	byEmail, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if byEmail != nil && byEmail.Username != username {
		return nil, ErrEmailTaken
	}
	return byUsername, nil
}

// IssueToken exchanges a confirmation code for an access token, activating the user.
// A code works once.
func (a *AuthService) IssueToken(ctx context.Context, username, code string) (*models.AuthToken, error) {
	const op = "auth.AuthService.IssueToken"
	log := a.log.With("op", op, "username", username)
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error("Error getting user", "errMsg", err.Error())
		return nil, err
	}
	hash, err := a.codes.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("no live confirmation code")
			return nil, ErrInvalidCode
		}
		log.Error("Error getting confirmation code", "errMsg", err.Error())
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(code)); err != nil {
		log.Info("confirmation code mismatch")
		return nil, ErrInvalidCode
	}
	if err := a.codes.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("confirmation code already used")
			return nil, ErrInvalidCode
		}
		log.Error("Error deleting confirmation code", "errMsg", err.Error())
		return nil, err
	}
	if !user.IsActive {
		if err := a.users.Activate(ctx, user.ID); err != nil {
			log.Error("Error activating user", "errMsg", err.Error())
			return nil, err
		}
		log.Info("user activated")
	}
	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		log.Error("Error issuing token", "errMsg", err.Error())
		return nil, err
	}
	return &models.AuthToken{Token: token}, nil
}

// Authenticate resolves the active user a bearer token was issued to.
func (a *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.AuthService.Authenticate"
	log := a.log.With("op", op)
	userID, err := a.tokens.Verify(token)
	if err != nil {
		log.Debug("token rejected", "errMsg", err.Error())
		return nil, ErrInvalidToken
	}
	user, err := a.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("token owner not found", "user_id", userID)
			return nil, ErrInvalidToken
		}
		log.Error("Error getting user", "errMsg", err.Error())
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
