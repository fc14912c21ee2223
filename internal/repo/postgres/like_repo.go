package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talelapse/a-board-view/internal/domain/model"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

func (r *LikeRepo) ListLikesByPost(ctx context.Context, postID int64) ([]model.Like, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("invalid post id")
	}
	if r.pool == nil {
		return []model.Like{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, post_id, user_id
FROM likes
WHERE post_id = $1
ORDER BY id
`, postID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	var items []model.Like
	for rows.Next() {
		var like model.Like
		if err := rows.Scan(&like.ID, &like.PostID, &like.UserID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		items = append(items, like)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate likes: %w", rows.Err())
	}

	return items, nil
}

// ToggleLike removes the (post, user) like when present, inserts it when
// absent, and reports the resulting state plus the post's like count. The
// whole toggle runs in one transaction so the pair-uniqueness invariant
// holds under concurrent toggles.
func (r *LikeRepo) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	if postID <= 0 || userID <= 0 {
		return false, 0, fmt.Errorf("invalid like payload")
	}
	if r.pool == nil {
		return false, 0, fmt.Errorf("postgres pool is nil")
	}

	var liked bool
	var count int
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		result, err := tx.Exec(txCtx, `
DELETE FROM likes
WHERE post_id = $1 AND user_id = $2
`, postID, userID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}

		if result.RowsAffected() == 0 {
			if _, err := tx.Exec(txCtx, `
INSERT INTO likes (post_id, user_id)
VALUES ($1, $2)
ON CONFLICT (post_id, user_id) DO NOTHING
`, postID, userID); err != nil {
				return fmt.Errorf("insert like: %w", err)
			}
			liked = true
		}

		if err := tx.QueryRow(txCtx, `
SELECT COUNT(*)
FROM likes
WHERE post_id = $1
`, postID).Scan(&count); err != nil {
			return fmt.Errorf("count likes: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}
