package reviews

import (
	"context"
	"errors"
	"net/http"

	"yamdb/proj/internal/domain/filters"
	"yamdb/proj/internal/domain/models"
	"yamdb/proj/internal/domain/permissions"
	"yamdb/proj/internal/lib/validator"
	"yamdb/proj/internal/storage"
)

// CreateComment fails with ErrReviewNotFound when the review is missing or filed under another title.
func (s *ReviewService) CreateComment(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.CreateComment"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID, "author_id", actor.ID)
	if err := permissions.HasPermission(actor, http.MethodPost, permissions.Comment); err != nil {
		return nil, err
	}
	if err := validator.Check(validator.NotBlank("text", text)); err != nil {
		return nil, err
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Insert(ctx, &models.Comment{ReviewID: reviewID, AuthorID: actor.ID, Text: text})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error("Error inserting comment", "errMsg", err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.ReviewService.GetComment"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID, "comment_id", commentID)
	comment, err := s.comments.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return nil, ErrCommentNotFound
		}
		log.Error("Error getting comment", "errMsg", err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, f filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.ReviewService.ListComments"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.List(ctx, reviewID, f)
	if err != nil {
		log.Error("Error listing comments", "errMsg", err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text *string) (*models.Comment, error) {
	const op = "reviews.ReviewService.UpdateComment"
	log := s.log.With("op", op, "comment_id", commentID)
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(actor, http.MethodPatch, permissions.Comment, comment.AuthorID); err != nil {
		log.Info("update denied", "actor_id", actor.ID)
		return nil, err
	}
	if text == nil {
		return comment, nil
	}
	if err := validator.Check(validator.NotBlank("text", *text)); err != nil {
		return nil, err
	}
	comment.Text = *text
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error("Error updating comment", "errMsg", err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	const op = "reviews.ReviewService.DeleteComment"
	log := s.log.With("op", op, "comment_id", commentID)
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := permissions.Check(actor, http.MethodDelete, permissions.Comment, comment.AuthorID); err != nil {
		log.Info("delete denied", "actor_id", actor.ID)
		return err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrCommentNotFound
		}
		log.Error("Error deleting comment", "errMsg", err.Error())
		return err
	}
	return nil
}
