package service

import (
	"context"

	"github.com/rs/zerolog"

	"adboard/api/internal/models"
)

type CommentService struct {
	comments CommentStore
	ads      AdStore
	log      zerolog.Logger
}

func NewCommentService(comments CommentStore, ads AdStore, log zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		ads:      ads,
		log:      log,
	}
}

func (s *CommentService) ListByAd(ctx context.Context, adID int64) ([]models.Comment, error) {
	if _, err := s.ads.GetByID(ctx, adID); err != nil {
		return nil, err
	}
	return s.comments.ListByAd(ctx, adID)
}

func (s *CommentService) Create(ctx context.Context, adID, authorID int64, text string) (models.Comment, error) {
	if _, err := s.ads.GetByID(ctx, adID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		AdID:     adID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, adID, commentID int64) (models.Comment, error) {
	return s.comments.GetByIDAndAd(ctx, commentID, adID)
}

func (s *CommentService) Update(ctx context.Context, adID, commentID int64, text string) (models.Comment, error) {
	comment, err := s.comments.GetByIDAndAd(ctx, commentID, adID)
	if err != nil {
		return models.Comment{}, err
	}

	if err := s.comments.UpdateText(ctx, comment.ID, text); err != nil {
		return models.Comment{}, err
	}
	comment.Text = text
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, adID, commentID int64) error {
	comment, err := s.comments.GetByIDAndAd(ctx, commentID, adID)
	if err != nil {
		return err
	}
	return s.comments.Delete(ctx, comment.ID)
}
