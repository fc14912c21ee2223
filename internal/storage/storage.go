// Package storage declares the persistence contracts consumed by the
// service layer. Two implementations exist: repo/postgres (pgx) and
// repo/memory (process-local, used in tests and as degraded mode when
// postgres is unreachable).
package storage

import (
	"context"
	"errors"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrNoBots        = errors.New("no bot users")
	ErrSelfMatch     = errors.New("match participants must differ")
)

type UserStore interface {
	CreateUser(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	// ListCandidates returns every human user except excludeID.
	ListCandidates(ctx context.Context, excludeID int64) ([]model.User, error)
}

type BotStore interface {
	CreateBot(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error)
	// RandomBot returns a uniformly random bot user, or ErrNoBots.
	RandomBot(ctx context.Context) (model.User, error)
	CountBots(ctx context.Context) (int, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, userID int64, content, imageURL string) (model.Post, error)
	GetPost(ctx context.Context, id int64) (model.Post, error)
	ListPosts(ctx context.Context) ([]model.PostWithAuthor, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, postID, userID int64, content string) (model.Comment, error)
	ListCommentsByPost(ctx context.Context, postID int64) ([]model.CommentWithAuthor, error)
}

type LikeStore interface {
	ListLikesByPost(ctx context.Context, postID int64) ([]model.Like, error)
	// ToggleLike flips the (post, user) like and reports the new state and
	// the post's like count.
	ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error)
}

type MatchStore interface {
	CreateMatch(ctx context.Context, user1ID, user2ID int64) (model.Match, error)
	GetMatch(ctx context.Context, matchID int64) (model.MatchWithUsers, error)
	ListMatchesForUser(ctx context.Context, userID int64) ([]model.MatchWithUsers, error)
}

type ChatMessageStore interface {
	CreateChatMessage(ctx context.Context, matchID, senderID int64, content string) (model.ChatMessage, error)
	// ListChatMessages returns the match history in creation order.
	ListChatMessages(ctx context.Context, matchID int64) ([]model.ChatMessage, error)
}
