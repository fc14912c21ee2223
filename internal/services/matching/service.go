// Package matching pairs users for one-on-one chats. A match prefers a
// random human partner and falls back to a bot when no human is
// available, so a find request always succeeds.
package matching

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
)

// botProvider is the slice of the bots service the matcher needs.
type botProvider interface {
	EnsureBotsExist(ctx context.Context) error
	GetOrCreateBot(ctx context.Context) (model.User, error)
}

type Dependencies struct {
	Users   storage.UserStore
	Matches storage.MatchStore
	Bots    botProvider
	Logger  *zap.Logger
	// Intn overrides the random source used for partner selection.
	Intn func(int) int
}

type Service struct {
	users   storage.UserStore
	matches storage.MatchStore
	bots    botProvider
	logger  *zap.Logger
	intn    func(int) int
}

// Result is a freshly created match together with the caller's partner.
type Result struct {
	Match   model.Match `json:"match"`
	Partner model.User  `json:"partner"`
	IsBot   bool        `json:"is_bot"`
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	intn := deps.Intn
	if intn == nil {
		intn = rand.Intn
	}
	return &Service{
		users:   deps.Users,
		matches: deps.Matches,
		bots:    deps.Bots,
		logger:  logger,
		intn:    intn,
	}
}

// Find pairs userID with a random other human, or with a bot when no
// human candidate exists. Repeat calls may pair the same two users
// again; every call produces a new match.
func (s *Service) Find(ctx context.Context, userID int64) (Result, error) {
	if err := s.checkDeps(); err != nil {
		return Result{}, err
	}
	if userID <= 0 {
		return Result{}, ErrValidation
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, err
	}

	candidates, err := s.users.ListCandidates(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		s.logger.Debug("no human candidates, matching with a bot", zap.Int64("user_id", userID))
		return s.matchWithBot(ctx, userID)
	}

	partner := candidates[s.intn(len(candidates))]
	match, err := s.matches.CreateMatch(ctx, userID, partner.ID)
	if err != nil {
		return Result{}, err
	}

	return Result{Match: match, Partner: partner}, nil
}

// FindAI pairs userID with a bot unconditionally.
func (s *Service) FindAI(ctx context.Context, userID int64) (Result, error) {
	if err := s.checkDeps(); err != nil {
		return Result{}, err
	}
	if userID <= 0 {
		return Result{}, ErrValidation
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return Result{}, ErrUserNotFound
		}
		return Result{}, err
	}

	return s.matchWithBot(ctx, userID)
}

// List returns userID's matches, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]model.MatchWithUsers, error) {
	if s.matches == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if userID <= 0 {
		return nil, ErrValidation
	}
	return s.matches.ListMatchesForUser(ctx, userID)
}

func (s *Service) matchWithBot(ctx context.Context, userID int64) (Result, error) {
	if err := s.bots.EnsureBotsExist(ctx); err != nil {
		return Result{}, fmt.Errorf("ensure bot pool: %w", err)
	}
	bot, err := s.bots.GetOrCreateBot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("pick bot partner: %w", err)
	}

	match, err := s.matches.CreateMatch(ctx, userID, bot.ID)
	if err != nil {
		return Result{}, err
	}

	return Result{Match: match, Partner: bot, IsBot: true}, nil
}

func (s *Service) checkDeps() error {
	if s.users == nil || s.matches == nil || s.bots == nil {
		return fmt.Errorf("matching dependencies are not configured")
	}
	return nil
}
