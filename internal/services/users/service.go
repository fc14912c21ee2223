package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("user not found")
)

const minBirthYear = 1900

type Service struct {
	store storage.UserStore
	now   func() time.Time
}

func NewService(store storage.UserStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Register creates an anonymous user from the minimal demographic pair.
func (s *Service) Register(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("user store is nil")
	}
	if birthYear < minBirthYear || birthYear > s.now().Year() {
		return model.User{}, ErrValidation
	}
	if !gender.Valid() {
		return model.User{}, ErrValidation
	}

	return s.store.CreateUser(ctx, birthYear, gender)
}

func (s *Service) Get(ctx context.Context, id int64) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("user store is nil")
	}
	if id <= 0 {
		return model.User{}, ErrValidation
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}

	return user, nil
}
