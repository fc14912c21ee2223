package dto

import (
	"time"

	"github.com/talelapse/a-board-view/internal/domain/model"
)

type CreatePostRequest struct {
	UserID   int64  `json:"user_id"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type PostResponse struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Content   string       `json:"content"`
	ImageURL  string       `json:"image_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Author    UserResponse `json:"author"`
}

func NewPostResponse(p model.PostWithAuthor) PostResponse {
	return PostResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		Author:    NewUserResponse(p.Author),
	}
}

type PostsResponse struct {
	Items []PostResponse `json:"items"`
}

type CreateCommentRequest struct {
	UserID  int64  `json:"user_id"`
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        int64        `json:"id"`
	PostID    int64        `json:"post_id"`
	UserID    int64        `json:"user_id"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Author    UserResponse `json:"author"`
}

func NewCommentResponse(c model.CommentWithAuthor) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    NewUserResponse(c.Author),
	}
}

type CommentsResponse struct {
	Items []CommentResponse `json:"items"`
}

type LikeResponse struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

type LikesResponse struct {
	Items []LikeResponse `json:"items"`
}

type ToggleLikeRequest struct {
	UserID int64 `json:"user_id"`
}

type ToggleLikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
