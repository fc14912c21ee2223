package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talelapse/a-board-view/internal/domain/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) CreateComment(ctx context.Context, postID, userID int64, content string) (model.Comment, error) {
	if r.pool == nil {
		return model.Comment{}, fmt.Errorf("postgres pool is nil")
	}
	if postID <= 0 || userID <= 0 || content == "" {
		return model.Comment{}, fmt.Errorf("invalid comment payload")
	}

	var comment model.Comment
	err := r.pool.QueryRow(ctx, `
INSERT INTO comments (post_id, user_id, content, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, post_id, user_id, content, created_at
`, postID, userID, content).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return model.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	return comment, nil
}

func (r *CommentRepo) ListCommentsByPost(ctx context.Context, postID int64) ([]model.CommentWithAuthor, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("invalid post id")
	}
	if r.pool == nil {
		return []model.CommentWithAuthor{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	c.id, c.post_id, c.user_id, c.content, c.created_at,
	u.id, u.birth_year, u.gender, u.is_bot, u.created_at
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.post_id = $1
ORDER BY c.created_at, c.id
`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []model.CommentWithAuthor
	for rows.Next() {
		var item model.CommentWithAuthor
		if err := rows.Scan(
			&item.ID,
			&item.PostID,
			&item.UserID,
			&item.Content,
			&item.CreatedAt,
			&item.Author.ID,
			&item.Author.BirthYear,
			&item.Author.Gender,
			&item.Author.IsBot,
			&item.Author.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate comments: %w", rows.Err())
	}

	return items, nil
}
