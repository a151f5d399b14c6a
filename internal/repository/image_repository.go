package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adboard/api/internal/models"
)

var ErrImageNotFound = errors.New("image not found")

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

const imageColumns = `
	id, file_path, file_size, content_type, original_file_name, ad_id, user_id, created_at
`

func scanImage(row pgx.Row) (models.Image, error) {
	var image models.Image
	if err := row.Scan(
		&image.ID,
		&image.FilePath,
		&image.FileSize,
		&image.ContentType,
		&image.OriginalFileName,
		&image.AdID,
		&image.UserID,
		&image.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Image{}, ErrImageNotFound
		}
		return models.Image{}, err
	}
	return image, nil
}

func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	const query = `
		INSERT INTO images (file_path, file_size, content_type, original_file_name, ad_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	row := r.pool.QueryRow(ctx, query,
		image.FilePath,
		image.FileSize,
		image.ContentType,
		image.OriginalFileName,
		image.AdID,
		image.UserID,
	)
	return row.Scan(&image.ID, &image.CreatedAt)
}

func (r *ImageRepository) GetByID(ctx context.Context, id int64) (models.Image, error) {
	const query = `SELECT` + imageColumns + `FROM images WHERE id = $1`
	return scanImage(r.pool.QueryRow(ctx, query, id))
}

func (r *ImageRepository) FindByPath(ctx context.Context, filePath string) (models.Image, error) {
	const query = `SELECT` + imageColumns + `FROM images WHERE file_path = $1`
	return scanImage(r.pool.QueryRow(ctx, query, filePath))
}

func (r *ImageRepository) ExistsByPath(ctx context.Context, filePath string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM images WHERE file_path = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, filePath).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ImageRepository) ListByAd(ctx context.Context, adID int64) ([]models.Image, error) {
	const query = `SELECT` + imageColumns + `FROM images WHERE ad_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, adID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *ImageRepository) FindByUser(ctx context.Context, userID int64) (models.Image, error) {
	const query = `SELECT` + imageColumns + `FROM images WHERE user_id = $1`
	return scanImage(r.pool.QueryRow(ctx, query, userID))
}

func (r *ImageRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM images WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) DeleteByPath(ctx context.Context, filePath string) error {
	const query = `DELETE FROM images WHERE file_path = $1`
	_, err := r.pool.Exec(ctx, query, filePath)
	return err
}
