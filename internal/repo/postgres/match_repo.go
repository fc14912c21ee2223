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

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

func (r *MatchRepo) CreateMatch(ctx context.Context, user1ID, user2ID int64) (model.Match, error) {
	if user1ID <= 0 || user2ID <= 0 {
		return model.Match{}, fmt.Errorf("invalid match payload")
	}
	if user1ID == user2ID {
		return model.Match{}, storage.ErrSelfMatch
	}
	if r.pool == nil {
		return model.Match{}, fmt.Errorf("postgres pool is nil")
	}

	var match model.Match
	err := r.pool.QueryRow(ctx, `
INSERT INTO matches (user1_id, user2_id, created_at)
VALUES ($1, $2, NOW())
RETURNING id, user1_id, user2_id, created_at
`, user1ID, user2ID).Scan(
		&match.ID,
		&match.User1ID,
		&match.User2ID,
		&match.CreatedAt,
	)
	if err != nil {
		return model.Match{}, fmt.Errorf("insert match: %w", err)
	}

	return match, nil
}

func (r *MatchRepo) GetMatch(ctx context.Context, matchID int64) (model.MatchWithUsers, error) {
	if matchID <= 0 {
		return model.MatchWithUsers{}, fmt.Errorf("invalid match id")
	}
	if r.pool == nil {
		return model.MatchWithUsers{}, fmt.Errorf("postgres pool is nil")
	}

	var item model.MatchWithUsers
	err := r.pool.QueryRow(ctx, `
SELECT
	m.id, m.user1_id, m.user2_id, m.created_at,
	u1.id, u1.birth_year, u1.gender, u1.is_bot, u1.created_at,
	u2.id, u2.birth_year, u2.gender, u2.is_bot, u2.created_at
FROM matches m
JOIN users u1 ON u1.id = m.user1_id
JOIN users u2 ON u2.id = m.user2_id
WHERE m.id = $1
`, matchID).Scan(
		&item.ID,
		&item.User1ID,
		&item.User2ID,
		&item.CreatedAt,
		&item.User1.ID,
		&item.User1.BirthYear,
		&item.User1.Gender,
		&item.User1.IsBot,
		&item.User1.CreatedAt,
		&item.User2.ID,
		&item.User2.BirthYear,
		&item.User2.Gender,
		&item.User2.IsBot,
		&item.User2.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MatchWithUsers{}, storage.ErrMatchNotFound
		}
		return model.MatchWithUsers{}, fmt.Errorf("get match: %w", err)
	}

	return item, nil
}

func (r *MatchRepo) ListMatchesForUser(ctx context.Context, userID int64) ([]model.MatchWithUsers, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []model.MatchWithUsers{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id, m.user1_id, m.user2_id, m.created_at,
	u1.id, u1.birth_year, u1.gender, u1.is_bot, u1.created_at,
	u2.id, u2.birth_year, u2.gender, u2.is_bot, u2.created_at
FROM matches m
JOIN users u1 ON u1.id = m.user1_id
JOIN users u2 ON u2.id = m.user2_id
WHERE m.user1_id = $1 OR m.user2_id = $1
ORDER BY m.created_at DESC, m.id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var items []model.MatchWithUsers
	for rows.Next() {
		var item model.MatchWithUsers
		if err := rows.Scan(
			&item.ID,
			&item.User1ID,
			&item.User2ID,
			&item.CreatedAt,
			&item.User1.ID,
			&item.User1.BirthYear,
			&item.User1.Gender,
			&item.User1.IsBot,
			&item.User1.CreatedAt,
			&item.User2.ID,
			&item.User2.BirthYear,
			&item.User2.Gender,
			&item.User2.IsBot,
			&item.User2.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}
