package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"adboard/api/internal/models"
	"adboard/api/internal/security"
)

type ProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

type UserService struct {
	users  UserStore
	images *ImageService
	log    zerolog.Logger
}

func NewUserService(users UserStore, images *ImageService, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		images: images,
		log:    log,
	}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, input ProfileInput) (models.User, error) {
	if err := s.users.UpdateProfile(ctx, id, input.FirstName, input.LastName, input.Phone); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

// SetPassword verifies the current password before storing the new
// hash.
func (s *UserService) SetPassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// UpdateAvatar replaces the user's avatar and returns the stored path.
func (s *UserService) UpdateAvatar(ctx context.Context, id int64, upload Upload) (string, error) {
	image, err := s.images.AttachAvatar(ctx, id, upload)
	if err != nil {
		return "", err
	}
	return image.FilePath, nil
}
