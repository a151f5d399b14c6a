package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adboard/api/internal/models"
)

var ErrAdNotFound = errors.New("ad not found")

type AdRepository struct {
	pool *pgxpool.Pool
}

func NewAdRepository(pool *pgxpool.Pool) *AdRepository {
	return &AdRepository{pool: pool}
}

const adColumns = `
	id, title, price, description, author_id, primary_image_id, created_at, updated_at
`

func scanAd(row pgx.Row) (models.Ad, error) {
	var ad models.Ad
	if err := row.Scan(
		&ad.ID,
		&ad.Title,
		&ad.Price,
		&ad.Description,
		&ad.AuthorID,
		&ad.PrimaryImageID,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ad{}, ErrAdNotFound
		}
		return models.Ad{}, err
	}
	return ad, nil
}

func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	const query = `
		INSERT INTO ads (title, price, description, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.pool.QueryRow(ctx, query, ad.Title, ad.Price, ad.Description, ad.AuthorID)
	return row.Scan(&ad.ID, &ad.CreatedAt, &ad.UpdatedAt)
}

func (r *AdRepository) GetByID(ctx context.Context, id int64) (models.Ad, error) {
	const query = `SELECT` + adColumns + `FROM ads WHERE id = $1`
	return scanAd(r.pool.QueryRow(ctx, query, id))
}

func (r *AdRepository) List(ctx context.Context, limit, offset int) ([]models.Ad, error) {
	const query = `SELECT` + adColumns + `FROM ads ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.queryAds(ctx, query, limit, offset)
}

func (r *AdRepository) ListAll(ctx context.Context) ([]models.Ad, error) {
	const query = `SELECT` + adColumns + `FROM ads ORDER BY created_at DESC`
	return r.queryAds(ctx, query)
}

func (r *AdRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.Ad, error) {
	const query = `SELECT` + adColumns + `FROM ads WHERE author_id = $1 ORDER BY created_at DESC`
	return r.queryAds(ctx, query, authorID)
}

func (r *AdRepository) queryAds(ctx context.Context, query string, args ...any) ([]models.Ad, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []models.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	return ads, rows.Err()
}

func (r *AdRepository) Update(ctx context.Context, id int64, title string, price int64, description string) error {
	const query = `
		UPDATE ads
		SET title = $2, price = $3, description = $4, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, title, price, description)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAdNotFound
	}
	return nil
}

// SetPrimaryImage durably moves the ad's primary image pointer; nil
// clears it.
func (r *AdRepository) SetPrimaryImage(ctx context.Context, id int64, imageID *int64) error {
	const query = `UPDATE ads SET primary_image_id = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, imageID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAdNotFound
	}
	return nil
}

func (r *AdRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM ads WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAdNotFound
	}
	return nil
}
