package dto

import (
	"time"

	"github.com/talelapse/a-board-view/internal/domain/model"
)

type CreateUserRequest struct {
	BirthYear int    `json:"birth_year"`
	Gender    string `json:"gender"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	BirthYear int       `json:"birth_year"`
	Gender    string    `json:"gender"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		BirthYear: u.BirthYear,
		Gender:    string(u.Gender),
		IsBot:     u.IsBot,
		CreatedAt: u.CreatedAt,
	}
}
