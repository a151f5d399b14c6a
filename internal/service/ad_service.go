package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"adboard/api/internal/models"
)

type AdInput struct {
	Title       string
	Price       int64
	Description string
}

type AdService struct {
	ads    AdStore
	users  UserStore
	images *ImageService
	log    zerolog.Logger
}

func NewAdService(ads AdStore, users UserStore, images *ImageService, log zerolog.Logger) *AdService {
	return &AdService{
		ads:    ads,
		users:  users,
		images: images,
		log:    log,
	}
}

// Create saves the ad first so the image filename can carry the real ad
// id, then attaches the optional upload.
func (s *AdService) Create(ctx context.Context, authorID int64, input AdInput, upload *Upload) (models.Ad, error) {
	ad := models.Ad{
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		AuthorID:    authorID,
	}
	if err := s.ads.Create(ctx, &ad); err != nil {
		return models.Ad{}, fmt.Errorf("create ad: %w", err)
	}

	if upload != nil && len(upload.Data) > 0 {
		image, err := s.images.AttachToAd(ctx, ad.ID, *upload)
		if err != nil {
			return models.Ad{}, err
		}
		ad.PrimaryImageID = &image.ID
	}

	return ad, nil
}

func (s *AdService) GetByID(ctx context.Context, id int64) (models.Ad, error) {
	return s.ads.GetByID(ctx, id)
}

// GetExtended returns the ad together with its author for the detailed
// view.
func (s *AdService) GetExtended(ctx context.Context, id int64) (models.Ad, models.User, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return models.Ad{}, models.User{}, err
	}
	author, err := s.users.GetByID(ctx, ad.AuthorID)
	if err != nil {
		return models.Ad{}, models.User{}, fmt.Errorf("load ad author: %w", err)
	}
	return ad, author, nil
}

func (s *AdService) ListAll(ctx context.Context) ([]models.Ad, error) {
	return s.ads.ListAll(ctx)
}

func (s *AdService) List(ctx context.Context, limit, offset int) ([]models.Ad, error) {
	return s.ads.List(ctx, limit, offset)
}

func (s *AdService) ListByAuthor(ctx context.Context, authorID int64) ([]models.Ad, error) {
	return s.ads.ListByAuthor(ctx, authorID)
}

func (s *AdService) Update(ctx context.Context, id int64, input AdInput) (models.Ad, error) {
	if err := s.ads.Update(ctx, id, input.Title, input.Price, input.Description); err != nil {
		return models.Ad{}, err
	}
	return s.ads.GetByID(ctx, id)
}

func (s *AdService) ReplaceImage(ctx context.Context, id int64, upload Upload) (models.Image, error) {
	return s.images.ReplaceAdImage(ctx, id, upload)
}

// Delete removes the ad's images (blobs included) before dropping the
// ad row, so no files are orphaned by the cascade.
func (s *AdService) Delete(ctx context.Context, id int64) error {
	if _, err := s.ads.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.images.DeleteAdImages(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("ad_id", id).Msg("ad image cleanup failed")
	}

	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("ad_id", id).Msg("ad deleted")
	return nil
}
