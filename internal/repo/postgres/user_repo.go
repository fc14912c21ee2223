package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) CreateUser(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	return r.insertUser(ctx, birthYear, gender, false)
}

func (r *UserRepo) CreateBot(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	return r.insertUser(ctx, birthYear, gender, true)
}

func (r *UserRepo) insertUser(ctx context.Context, birthYear int, gender enums.Gender, isBot bool) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (birth_year, gender, is_bot, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, birth_year, gender, is_bot, created_at
`, birthYear, string(gender), isBot).Scan(
		&user.ID,
		&user.BirthYear,
		&user.Gender,
		&user.IsBot,
		&user.CreatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetUser(ctx context.Context, id int64) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return model.User{}, fmt.Errorf("invalid user id")
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, birth_year, gender, is_bot, created_at
FROM users
WHERE id = $1
`, id).Scan(
		&user.ID,
		&user.BirthYear,
		&user.Gender,
		&user.IsBot,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, storage.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// ListCandidates returns every human user except excludeID, in id order.
func (r *UserRepo) ListCandidates(ctx context.Context, excludeID int64) ([]model.User, error) {
	if r.pool == nil {
		return []model.User{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, birth_year, gender, is_bot, created_at
FROM users
WHERE id <> $1 AND is_bot = FALSE
ORDER BY id
`, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var items []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.BirthYear,
			&user.Gender,
			&user.IsBot,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}

func (r *UserRepo) RandomBot(ctx context.Context) (model.User, error) {
	if r.pool == nil {
		return model.User{}, storage.ErrNoBots
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, birth_year, gender, is_bot, created_at
FROM users
WHERE is_bot = TRUE
ORDER BY RANDOM()
LIMIT 1
`).Scan(
		&user.ID,
		&user.BirthYear,
		&user.Gender,
		&user.IsBot,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, storage.ErrNoBots
		}
		return model.User{}, fmt.Errorf("get random bot: %w", err)
	}

	return user, nil
}

func (r *UserRepo) CountBots(ctx context.Context) (int, error) {
	if r.pool == nil {
		return 0, nil
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM users
WHERE is_bot = TRUE
`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bots: %w", err)
	}

	return count, nil
}
