package titles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"yamdb/proj/internal/domain/errs"
	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/storage"
)

const MaxNameLength = 256

var SortSafelist = []string{"name", "year"}

type TitleStorage interface {
	Get(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, tf filters.TitleFilter, f filters.Filters) ([]models.Title, int, error)
	Insert(ctx context.Context, title *models.Title) (*models.Title, error)
	Update(ctx context.Context, title *models.Title, replaceGenres bool) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryStorage interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type GenreStorage interface {
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

type TitleService struct {
	log        *slog.Logger
	storage    TitleStorage
	categories CategoryStorage
	genres     GenreStorage
	now        func() time.Time
}

func New(log *slog.Logger, storage TitleStorage, categories CategoryStorage, genres GenreStorage) *TitleService {
	return &TitleService{
		log:        log,
		storage:    storage,
		categories: categories,
		genres:     genres,
		now:        time.Now,
	}
}

// TitleInput carries writable title fields. Nil pointers (and a nil Genres slice)
// mean the field was not supplied. Category and Genres are slugs.
type TitleInput struct {
	Name        *string
	Year        *int32
	Description *string
	Category    *string
	Genres      []string
}

func (s *TitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	const op = "titles.TitleService.Get"
	log := s.log.With("op", op, "id", id)
	title, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error("Error getting title", "errMsg", err.Error())
		return nil, err
	}
	return title, nil
}

func (s *TitleService) List(ctx context.Context, tf filters.TitleFilter, f filters.Filters) ([]models.Title, int, error) {
	const op = "titles.TitleService.List"
	log := s.log.With("op", op)
	f.SortSafelist = SortSafelist
	if !f.IsValidSort() {
		return nil, 0, errs.FieldError("ordering", "Ordering must be one of: "+strings.Join(SortSafelist, ", ")+
			" optionally prefixed with -")
	}
	titles, total, err := s.storage.List(ctx, tf, f)
	if err != nil {
		log.Error("Error listing titles", "errMsg", err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

func (s *TitleService) Create(ctx context.Context, input TitleInput) (*models.Title, error) {
	const op = "titles.TitleService.Create"
	log := s.log.With("op", op)
	rules := []validator.Rule{
		required("name", input.Name != nil),
		required("year", input.Year != nil),
		required("genre", input.Genres != nil),
	}
	if err := validator.Check(append(rules, s.rules(input)...)...); err != nil {
		return nil, err
	}
	title := &models.Title{Name: *input.Name, Year: *input.Year}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if err := s.resolveRefs(ctx, title, input); err != nil {
		return nil, err
	}
	created, err := s.storage.Insert(ctx, title)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// a referenced category or genre vanished between lookup and insert
			return nil, errs.FieldError("genre", "Referenced category or genre no longer exists")
		}
		log.Error("Error inserting title", "errMsg", err.Error())
		return nil, err
	}
	log.Info("title created", "id", created.ID)
	return created, nil
}

// Update applies a partial update. Genre links are replaced only when genres are supplied.
func (s *TitleService) Update(ctx context.Context, id int64, input TitleInput) (*models.Title, error) {
	const op = "titles.TitleService.Update"
	log := s.log.With("op", op, "id", id)
	if err := validator.Check(s.rules(input)...); err != nil {
		return nil, err
	}
	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		title.Name = *input.Name
	}
	if input.Year != nil {
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if err := s.resolveRefs(ctx, title, input); err != nil {
		return nil, err
	}
	updated, err := s.storage.Update(ctx, title, input.Genres != nil)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error("Error updating title", "errMsg", err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *TitleService) Delete(ctx context.Context, id int64) error {
	const op = "titles.TitleService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error("Error deleting title", "errMsg", err.Error())
		return err
	}
	return nil
}

// rules validates only the fields present in input.
func (s *TitleService) rules(input TitleInput) []validator.Rule {
	var rules []validator.Rule
	if input.Name != nil {
		name := *input.Name
		rules = append(rules,
			validator.NotBlank("name", name),
			func() (string, string) {
				if utf8.RuneCountInString(name) > MaxNameLength {
					return "name", "Value is too long"
				}
				return "", ""
			},
		)
	}
	if input.Year != nil {
		rules = append(rules, validator.YearNotInFuture("year", *input.Year, s.now))
	}
	if input.Genres != nil {
		rules = append(rules, validator.NotEmpty("genre", input.Genres))
	}
	return rules
}

func required(field string, present bool) validator.Rule {
	return func() (string, string) {
		if !present {
			return field, "This field is required"
		}
		return "", ""
	}
}

// resolveRefs swaps the category and genre slugs in input for stored rows.
// An empty category slug detaches the category.
func (s *TitleService) resolveRefs(ctx context.Context, title *models.Title, input TitleInput) error {
	fieldErrs := make(map[string]string)
	if input.Category != nil {
		title.Category = nil
		if slugValue := *input.Category; slugValue != "" {
			category, err := s.categories.GetBySlug(ctx, slugValue)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				fieldErrs["category"] = fmt.Sprintf("Category %q does not exist", slugValue)
			case err != nil:
				return err
			default:
				title.Category = category
			}
		}
	}
	if input.Genres != nil {
		genres, err := s.genres.GetBySlugs(ctx, input.Genres)
		if err != nil {
			return err
		}
		found := make(map[string]models.Genre, len(genres))
		for _, genre := range genres {
			found[genre.Slug] = genre
		}
		title.Genres = make([]models.Genre, 0, len(input.Genres))
		seen := make(map[string]bool, len(input.Genres))
		var missing []string
		for _, slugValue := range input.Genres {
			if seen[slugValue] {
				continue
			}
			seen[slugValue] = true
			genre, ok := found[slugValue]
			if !ok {
				missing = append(missing, slugValue)
				continue
			}
			title.Genres = append(title.Genres, genre)
		}
		if len(missing) > 0 {
			fieldErrs["genre"] = "Unknown genres: " + strings.Join(missing, ", ")
		}
	}
	if len(fieldErrs) > 0 {
		return errs.NewValidationError(fieldErrs)
	}
	return nil
}
