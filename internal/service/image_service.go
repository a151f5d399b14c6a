package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"adboard/api/internal/media"
	"adboard/api/internal/models"
	"adboard/api/internal/repository"
	"adboard/api/internal/storage"
)

// Upload carries the raw payload of an image upload.
type Upload struct {
	Data             []byte
	OriginalFileName string
	ContentType      string
}

// ImageService owns the blob/record linkage: it attaches images to
// their ad or user, keeps the owner's primary pointer current, and
// cleans up replaced or orphaned images. Blob writes always happen
// before the metadata row is persisted, so a stored record never
// references a blob that was never written.
type ImageService struct {
	ads    AdStore
	users  UserStore
	images ImageStore
	blobs  storage.BlobStore
	log    zerolog.Logger
}

func NewImageService(ads AdStore, users UserStore, images ImageStore, blobs storage.BlobStore, log zerolog.Logger) *ImageService {
	return &ImageService{
		ads:    ads,
		users:  users,
		images: images,
		blobs:  blobs,
		log:    log,
	}
}

// AttachToAd stores the upload for the given ad and persists its
// record. The first image of an ad becomes its primary image.
func (s *ImageService) AttachToAd(ctx context.Context, adID int64, upload Upload) (models.Image, error) {
	if len(upload.Data) == 0 {
		return models.Image{}, ErrInvalidImage
	}

	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return models.Image{}, err
	}

	filename := media.Filename(fmt.Sprintf("ad_%d", adID), upload.OriginalFileName)
	path, err := s.blobs.Write(ctx, storage.CategoryAds, filename, upload.Data)
	if err != nil {
		return models.Image{}, fmt.Errorf("store ad image: %w", err)
	}

	image := models.Image{
		FilePath:         path,
		FileSize:         int64(len(upload.Data)),
		ContentType:      resolveContentType(upload.ContentType, path),
		OriginalFileName: upload.OriginalFileName,
		AdID:             &adID,
	}
	if err := s.images.Create(ctx, &image); err != nil {
		return models.Image{}, fmt.Errorf("save image record: %w", err)
	}

	if ad.PrimaryImageID == nil {
		if err := s.ads.SetPrimaryImage(ctx, adID, &image.ID); err != nil {
			return models.Image{}, fmt.Errorf("set primary image: %w", err)
		}
	}

	s.log.Info().Int64("ad_id", adID).Str("path", path).Msg("ad image attached")
	return image, nil
}

// ReplaceAdImage deletes every image currently attached to the ad and
// attaches the upload as the new primary. Blob deletion is best-effort:
// a failed file removal is logged and the stale record is deleted
// anyway, so no record ever dangles on a replaced image.
func (s *ImageService) ReplaceAdImage(ctx context.Context, adID int64, upload Upload) (models.Image, error) {
	if len(upload.Data) == 0 {
		return models.Image{}, ErrInvalidImage
	}

	if _, err := s.ads.GetByID(ctx, adID); err != nil {
		return models.Image{}, err
	}

	old, err := s.images.ListByAd(ctx, adID)
	if err != nil {
		return models.Image{}, fmt.Errorf("list ad images: %w", err)
	}
	for _, image := range old {
		s.deleteImage(ctx, image)
	}

	image, err := s.AttachToAd(ctx, adID, upload)
	if err != nil {
		return models.Image{}, err
	}

	if err := s.ads.SetPrimaryImage(ctx, adID, &image.ID); err != nil {
		return models.Image{}, fmt.Errorf("set primary image: %w", err)
	}
	return image, nil
}

// AttachAvatar stores the upload as the user's avatar, deleting any
// previous avatar blob and record first.
func (s *ImageService) AttachAvatar(ctx context.Context, userID int64, upload Upload) (models.Image, error) {
	if len(upload.Data) == 0 {
		return models.Image{}, ErrInvalidImage
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Image{}, err
	}

	if user.AvatarID != nil {
		if old, err := s.images.GetByID(ctx, *user.AvatarID); err == nil {
			s.deleteImage(ctx, old)
		} else if !errors.Is(err, repository.ErrImageNotFound) {
			return models.Image{}, fmt.Errorf("load old avatar: %w", err)
		}
	}

	filename := media.Filename(fmt.Sprintf("user_%d", userID), upload.OriginalFileName)
	path, err := s.blobs.Write(ctx, storage.CategoryUsers, filename, upload.Data)
	if err != nil {
		return models.Image{}, fmt.Errorf("store avatar: %w", err)
	}

	image := models.Image{
		FilePath:         path,
		FileSize:         int64(len(upload.Data)),
		ContentType:      resolveContentType(upload.ContentType, path),
		OriginalFileName: upload.OriginalFileName,
		UserID:           &userID,
	}
	if err := s.images.Create(ctx, &image); err != nil {
		return models.Image{}, fmt.Errorf("save avatar record: %w", err)
	}

	if err := s.users.SetAvatar(ctx, userID, &image.ID); err != nil {
		return models.Image{}, fmt.Errorf("set avatar pointer: %w", err)
	}

	s.log.Info().Int64("user_id", userID).Str("path", path).Msg("avatar attached")
	return image, nil
}

// DeleteAdImages removes every image attached to the ad, records and
// blobs both. Called before the ad row itself is deleted.
func (s *ImageService) DeleteAdImages(ctx context.Context, adID int64) error {
	images, err := s.images.ListByAd(ctx, adID)
	if err != nil {
		return fmt.Errorf("list ad images: %w", err)
	}

	if err := s.ads.SetPrimaryImage(ctx, adID, nil); err != nil && !errors.Is(err, repository.ErrAdNotFound) {
		return fmt.Errorf("clear primary image: %w", err)
	}
	for _, image := range images {
		s.deleteImage(ctx, image)
	}
	return nil
}

// DeleteUserAvatar removes the user's avatar record and blob, if any.
func (s *ImageService) DeleteUserAvatar(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.AvatarID == nil {
		return nil
	}

	image, err := s.images.GetByID(ctx, *user.AvatarID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return s.users.SetAvatar(ctx, userID, nil)
		}
		return fmt.Errorf("load avatar: %w", err)
	}

	if err := s.users.SetAvatar(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear avatar pointer: %w", err)
	}
	s.deleteImage(ctx, image)
	return nil
}

// AdImage returns the bytes and content type of the ad's primary
// image. A missing ad or an ad without images yields the repository's
// not-found errors for the handler to map.
func (s *ImageService) AdImage(ctx context.Context, adID int64) ([]byte, string, error) {
	image, err := s.adPrimaryImage(ctx, adID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.blobs.Read(ctx, image.FilePath)
	if err != nil {
		return nil, "", err
	}
	return data, imageContentType(image), nil
}

// UserAvatar returns the bytes and content type of the user's avatar.
func (s *ImageService) UserAvatar(ctx context.Context, userID int64) ([]byte, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.AvatarID == nil {
		return nil, "", repository.ErrImageNotFound
	}

	image, err := s.images.GetByID(ctx, *user.AvatarID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.blobs.Read(ctx, image.FilePath)
	if err != nil {
		return nil, "", err
	}
	return data, imageContentType(image), nil
}

// ContentTypeFor resolves the content type of an owner's current image.
// It is advisory: any lookup failure yields the default type instead of
// an error.
func (s *ImageService) ContentTypeFor(ctx context.Context, ownerID int64, kind string) string {
	var (
		image models.Image
		err   error
	)
	switch kind {
	case "ad":
		image, err = s.adPrimaryImage(ctx, ownerID)
	case "user":
		image, err = s.images.FindByUser(ctx, ownerID)
	default:
		return media.DefaultContentType
	}
	if err != nil {
		return media.DefaultContentType
	}
	return imageContentType(image)
}

func (s *ImageService) adPrimaryImage(ctx context.Context, adID int64) (models.Image, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return models.Image{}, err
	}

	if ad.PrimaryImageID != nil {
		return s.images.GetByID(ctx, *ad.PrimaryImageID)
	}

	// Pointer can lag behind the collection (e.g. cleared by a cascade);
	// fall back to the earliest uploaded image.
	images, err := s.images.ListByAd(ctx, adID)
	if err != nil {
		return models.Image{}, err
	}
	if len(images) == 0 {
		return models.Image{}, repository.ErrImageNotFound
	}
	return images[0], nil
}

// deleteImage drops the blob and then the record. A failed blob delete
// is logged and the record is removed regardless: a leaked file is
// recoverable by the orphan sweep, a dangling record is not.
func (s *ImageService) deleteImage(ctx context.Context, image models.Image) {
	if err := s.blobs.Delete(ctx, image.FilePath); err != nil {
		s.log.Warn().Err(err).Str("path", image.FilePath).Msg("blob delete failed, removing record anyway")
	}
	if err := s.images.DeleteByID(ctx, image.ID); err != nil && !errors.Is(err, repository.ErrImageNotFound) {
		s.log.Error().Err(err).Int64("image_id", image.ID).Msg("image record delete failed")
	}
}

func resolveContentType(declared, path string) string {
	if declared != "" {
		return declared
	}
	return media.ContentType(path)
}

func imageContentType(image models.Image) string {
	if image.ContentType != "" {
		return image.ContentType
	}
	return media.ContentType(image.FilePath)
}
