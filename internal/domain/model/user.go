package model

import (
	"time"

	"github.com/talelapse/a-board-view/internal/domain/enums"
)

type User struct {
	ID        int64        `json:"id"`
	BirthYear int          `json:"birth_year"`
	Gender    enums.Gender `json:"gender"`
	IsBot     bool         `json:"is_bot"`
	CreatedAt time.Time    `json:"created_at"`
}
