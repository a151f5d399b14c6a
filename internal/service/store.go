package service

import (
	"context"
	"time"

	"adboard/api/internal/models"
)

// Store interfaces are defined on the consumer side so services can be
// exercised against in-memory fakes; the pgx repositories satisfy them.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash []byte) error
	SetAvatar(ctx context.Context, id int64, avatarID *int64) error
}

type AdStore interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id int64) (models.Ad, error)
	ListAll(ctx context.Context) ([]models.Ad, error)
	List(ctx context.Context, limit, offset int) ([]models.Ad, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Ad, error)
	Update(ctx context.Context, id int64, title string, price int64, description string) error
	SetPrimaryImage(ctx context.Context, id int64, imageID *int64) error
	Delete(ctx context.Context, id int64) error
}

type ImageStore interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id int64) (models.Image, error)
	FindByUser(ctx context.Context, userID int64) (models.Image, error)
	ListByAd(ctx context.Context, adID int64) ([]models.Image, error)
	ExistsByPath(ctx context.Context, filePath string) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByPath(ctx context.Context, filePath string) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByIDAndAd(ctx context.Context, id, adID int64) (models.Comment, error)
	ListByAd(ctx context.Context, adID int64) ([]models.Comment, error)
	UpdateText(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
	DeleteByAd(ctx context.Context, adID int64) error
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int64) (models.Session, error)
	FindByRefreshHash(ctx context.Context, userID int64, refreshHash []byte) (models.Session, error)
	UpdateRefreshHash(ctx context.Context, id int64, refreshHash []byte, expiresAt time.Time) error
	DeleteByID(ctx context.Context, id int64) error
}
