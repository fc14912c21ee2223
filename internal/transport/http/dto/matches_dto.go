package dto

import (
	"time"

	"github.com/talelapse/a-board-view/internal/domain/model"
)

type FindMatchRequest struct {
	UserID int64 `json:"user_id"`
}

type MatchResponse struct {
	ID        int64     `json:"id"`
	User1ID   int64     `json:"user1_id"`
	User2ID   int64     `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMatchResponse(m model.Match) MatchResponse {
	return MatchResponse{
		ID:        m.ID,
		User1ID:   m.User1ID,
		User2ID:   m.User2ID,
		CreatedAt: m.CreatedAt,
	}
}

type FindMatchResponse struct {
	Match   MatchResponse `json:"match"`
	Partner UserResponse  `json:"partner"`
	IsBot   bool          `json:"is_bot"`
}

type MatchItemResponse struct {
	ID            int64        `json:"id"`
	User1ID       int64        `json:"user1_id"`
	User2ID       int64        `json:"user2_id"`
	CreatedAt     time.Time    `json:"created_at"`
	User1         UserResponse `json:"user1"`
	User2         UserResponse `json:"user2"`
	PartnerOnline bool         `json:"partner_online"`
}

func NewMatchItemResponse(m model.MatchWithUsers, partnerOnline bool) MatchItemResponse {
	return MatchItemResponse{
		ID:            m.ID,
		User1ID:       m.User1ID,
		User2ID:       m.User2ID,
		CreatedAt:     m.CreatedAt,
		User1:         NewUserResponse(m.User1),
		User2:         NewUserResponse(m.User2),
		PartnerOnline: partnerOnline,
	}
}

type MatchesResponse struct {
	Items []MatchItemResponse `json:"items"`
}

type ChatMessageResponse struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewChatMessageResponse(m model.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		MatchID:   m.MatchID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

type ChatMessagesResponse struct {
	Items []ChatMessageResponse `json:"items"`
}
