package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) CreatePost(ctx context.Context, userID int64, content, imageURL string) (model.Post, error) {
	if r.pool == nil {
		return model.Post{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || content == "" {
		return model.Post{}, fmt.Errorf("invalid post payload")
	}

	var post model.Post
	err := r.pool.QueryRow(ctx, `
INSERT INTO posts (user_id, content, image_url, created_at)
VALUES ($1, $2, NULLIF($3, ''), NOW())
RETURNING id, user_id, content, COALESCE(image_url, ''), created_at
`, userID, content, imageURL).Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.ImageURL,
		&post.CreatedAt,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("insert post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) GetPost(ctx context.Context, id int64) (model.Post, error) {
	if r.pool == nil {
		return model.Post{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return model.Post{}, fmt.Errorf("invalid post id")
	}

	var post model.Post
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, content, COALESCE(image_url, ''), created_at
FROM posts
WHERE id = $1
`, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.ImageURL,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, storage.ErrPostNotFound
		}
		return model.Post{}, fmt.Errorf("get post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) ListPosts(ctx context.Context) ([]model.PostWithAuthor, error) {
	if r.pool == nil {
		return []model.PostWithAuthor{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.id, p.user_id, p.content, COALESCE(p.image_url, ''), p.created_at,
	u.id, u.birth_year, u.gender, u.is_bot, u.created_at
FROM posts p
JOIN users u ON u.id = p.user_id
ORDER BY p.created_at DESC, p.id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []model.PostWithAuthor
	for rows.Next() {
		var item model.PostWithAuthor
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Content,
			&item.ImageURL,
			&item.CreatedAt,
			&item.Author.ID,
			&item.Author.BirthYear,
			&item.Author.Gender,
			&item.Author.IsBot,
			&item.Author.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate posts: %w", rows.Err())
	}

	return items, nil
}
