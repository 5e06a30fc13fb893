// Package reviews handles reviews on titles and the comment threads under them.
// Every lookup is scoped by the parent ids from the request path, so a review or
// comment addressed through the wrong parent is reported as not found.
package reviews

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/permissions"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/storage"
)

const (
	MinScore = 1
	MaxScore = 10
)

type TitleStorage interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ReviewStorage interface {
	Insert(ctx context.Context, review *models.Review) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID int64) (bool, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	List(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64) error
}

type CommentStorage interface {
	Insert(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	List(ctx context.Context, reviewID int64, f filters.Filters) ([]models.Comment, int, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, commentID int64) error
}

type ReviewService struct {
	log      *slog.Logger
	titles   TitleStorage
	reviews  ReviewStorage
	comments CommentStorage
}

func New(log *slog.Logger, titles TitleStorage, reviews ReviewStorage, comments CommentStorage) *ReviewService {
	return &ReviewService{
		log:      log,
		titles:   titles,
		reviews:  reviews,
		comments: comments,
	}
}

// ReviewInput holds a partial review. Nil fields are left untouched on update.
type ReviewInput struct {
	Text  *string
	Score *int
}

func reviewRules(input ReviewInput) []validator.Rule {
	var rules []validator.Rule
	if input.Text != nil {
		rules = append(rules, validator.NotBlank("text", *input.Text))
	}
	if input.Score != nil {
		rules = append(rules, validator.IntBetween("score", *input.Score, MinScore, MaxScore))
	}
	return rules
}

func (s *ReviewService) ensureTitle(ctx context.Context, titleID int64) error {
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTitleNotFound
	}
	return nil
}

// CreateReview attaches actor's review to the title. An author reviews a title at most once.
func (s *ReviewService) CreateReview(ctx context.Context, actor *models.User, titleID int64, input ReviewInput) (*models.Review, error) {
	const op = "reviews.ReviewService.CreateReview"
	log := s.log.With("op", op, "title_id", titleID, "author_id", actor.ID)
	if err := permissions.HasPermission(actor, http.MethodPost, permissions.Review); err != nil {
		return nil, err
	}
	rules := []validator.Rule{
		func() (string, string) {
			if input.Text == nil {
				return "text", "This field is required"
			}
			return "", ""
		},
		func() (string, string) {
			if input.Score == nil {
				return "score", "This field is required"
			}
			return "", ""
		},
	}
	if err := validator.Check(append(rules, reviewRules(input)...)...); err != nil {
		return nil, err
	}
	if err := s.ensureTitle(ctx, titleID); err != nil {
		if !errors.Is(err, ErrTitleNotFound) {
			log.Error("Error checking title", "errMsg", err.Error())
		}
		return nil, err
	}
	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, actor.ID)
	if err != nil {
		log.Error("Error checking existing review", "errMsg", err.Error())
		return nil, err
	}
	if exists {
		log.Info("review already exists")
		return nil, ErrAlreadyReviewed
	}
	review, err := s.reviews.Insert(ctx, &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     *input.Text,
		Score:    int16(*input.Score),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("review inserted concurrently")
			return nil, ErrAlreadyReviewed
		case errors.Is(err, storage.ErrNotFound):
			// title deleted between the check and the insert
			return nil, ErrTitleNotFound
		}
		log.Error("Error inserting review", "errMsg", err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.GetReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error("Error getting review", "errMsg", err.Error())
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID int64, f filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewService.ListReviews"
	log := s.log.With("op", op, "title_id", titleID)
	if err := s.ensureTitle(ctx, titleID); err != nil {
		if !errors.Is(err, ErrTitleNotFound) {
			log.Error("Error checking title", "errMsg", err.Error())
		}
		return nil, 0, err
	}
	reviews, total, err := s.reviews.List(ctx, titleID, f)
	if err != nil {
		log.Error("Error listing reviews", "errMsg", err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor *models.User, titleID, reviewID int64, input ReviewInput) (*models.Review, error) {
	const op = "reviews.ReviewService.UpdateReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(actor, http.MethodPatch, permissions.Review, review.AuthorID); err != nil {
		log.Info("update denied", "actor_id", actor.ID)
		return nil, err
	}
	if err := validator.Check(reviewRules(input)...); err != nil {
		return nil, err
	}
	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = int16(*input.Score)
	}
	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error("Error updating review", "errMsg", err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	const op = "reviews.ReviewService.DeleteReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := permissions.Check(actor, http.MethodDelete, permissions.Review, review.AuthorID); err != nil {
		log.Info("delete denied", "actor_id", actor.ID)
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error("Error deleting review", "errMsg", err.Error())
		return err
	}
	return nil
}
