package services

import (
	"log/slog"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/jwt"
	"yamdb/proj/internal/mails"
	"yamdb/proj/internal/services/auth"
	"yamdb/proj/internal/services/catalog"
	"yamdb/proj/internal/services/reviews"
	"yamdb/proj/internal/services/titles"
	"yamdb/proj/internal/services/users"
	storagemodels "yamdb/proj/internal/storage/postgres/models"
	"yamdb/proj/internal/storage/redis"
)

type Services struct {
	Auth       *auth.AuthService
	Categories *catalog.TaxonomyService[models.Category]
	Genres     *catalog.TaxonomyService[models.Genre]
	Titles     *titles.TitleService
	Reviews    *reviews.ReviewService
	Users      *users.UserService
}

func New(
	log *slog.Logger,
	cfg *config.Config,
	storage *storagemodels.Models,
	codes *redis.CodeStore,
	taskExecutor auth.TaskExecutor,
) *Services {
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	tokens := jwt.New(cfg.AppSecret, cfg.Auth.AccessTokenTTL)
	return &Services{
		Auth: auth.New(
			log, mailer, storage.User, codes, tokens, taskExecutor, cfg.Auth.ConfirmationCodeTTL,
		),
		Categories: catalog.NewCategories(log, storage.Category),
		Genres:     catalog.NewGenres(log, storage.Genre),
		Titles:     titles.New(log, storage.Title, storage.Category, storage.Genre),
		Reviews:    reviews.New(log, storage.Title, storage.Review, storage.Comment),
		Users:      users.New(log, storage.User),
	}
}
