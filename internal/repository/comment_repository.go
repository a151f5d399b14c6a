package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adboard/api/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

const commentColumns = `
	id, ad_id, author_id, text, created_at
`

func scanComment(row pgx.Row) (models.Comment, error) {
	var comment models.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.AdID,
		&comment.AuthorID,
		&comment.Text,
		&comment.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrCommentNotFound
		}
		return models.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	const query = `
		INSERT INTO comments (ad_id, author_id, text, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	row := r.pool.QueryRow(ctx, query, comment.AdID, comment.AuthorID, comment.Text)
	return row.Scan(&comment.ID, &comment.CreatedAt)
}

func (r *CommentRepository) GetByIDAndAd(ctx context.Context, id, adID int64) (models.Comment, error) {
	const query = `SELECT` + commentColumns + `FROM comments WHERE id = $1 AND ad_id = $2`
	return scanComment(r.pool.QueryRow(ctx, query, id, adID))
}

func (r *CommentRepository) ListByAd(ctx context.Context, adID int64) ([]models.Comment, error) {
	const query = `SELECT` + commentColumns + `FROM comments WHERE ad_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, adID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) UpdateText(ctx context.Context, id int64, text string) error {
	const query = `UPDATE comments SET text = $2 WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, text)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM comments WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByAd(ctx context.Context, adID int64) error {
	const query = `DELETE FROM comments WHERE ad_id = $1`
	_, err := r.pool.Exec(ctx, query, adID)
	return err
}
