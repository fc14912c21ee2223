package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
)

const maxContentLen = 4000

type Dependencies struct {
	Posts    storage.PostStore
	Comments storage.CommentStore
	Likes    storage.LikeStore
	Users    storage.UserStore
}

type Service struct {
	posts    storage.PostStore
	comments storage.CommentStore
	likes    storage.LikeStore
	users    storage.UserStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		posts:    deps.Posts,
		comments: deps.Comments,
		likes:    deps.Likes,
		users:    deps.Users,
	}
}

func (s *Service) List(ctx context.Context) ([]model.PostWithAuthor, error) {
	if s.posts == nil {
		return nil, fmt.Errorf("post store is nil")
	}
	return s.posts.ListPosts(ctx)
}

func (s *Service) Create(ctx context.Context, userID int64, content, imageURL string) (model.PostWithAuthor, error) {
	if s.posts == nil || s.users == nil {
		return model.PostWithAuthor{}, fmt.Errorf("post dependencies are not configured")
	}

	content = strings.TrimSpace(content)
	if userID <= 0 || content == "" || len(content) > maxContentLen {
		return model.PostWithAuthor{}, ErrValidation
	}

	author, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return model.PostWithAuthor{}, ErrUserNotFound
		}
		return model.PostWithAuthor{}, err
	}

	post, err := s.posts.CreatePost(ctx, userID, content, imageURL)
	if err != nil {
		return model.PostWithAuthor{}, err
	}

	return model.PostWithAuthor{Post: post, Author: author}, nil
}

func (s *Service) ListComments(ctx context.Context, postID int64) ([]model.CommentWithAuthor, error) {
	if s.comments == nil {
		return nil, fmt.Errorf("comment store is nil")
	}
	if postID <= 0 {
		return nil, ErrValidation
	}
	return s.comments.ListCommentsByPost(ctx, postID)
}

func (s *Service) CreateComment(ctx context.Context, postID, userID int64, content string) (model.CommentWithAuthor, error) {
	if s.comments == nil || s.posts == nil || s.users == nil {
		return model.CommentWithAuthor{}, fmt.Errorf("comment dependencies are not configured")
	}

	content = strings.TrimSpace(content)
	if postID <= 0 || userID <= 0 || content == "" || len(content) > maxContentLen {
		return model.CommentWithAuthor{}, ErrValidation
	}

	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return model.CommentWithAuthor{}, ErrPostNotFound
		}
		return model.CommentWithAuthor{}, err
	}
	author, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return model.CommentWithAuthor{}, ErrUserNotFound
		}
		return model.CommentWithAuthor{}, err
	}

	comment, err := s.comments.CreateComment(ctx, postID, userID, content)
	if err != nil {
		return model.CommentWithAuthor{}, err
	}

	return model.CommentWithAuthor{Comment: comment, Author: author}, nil
}

func (s *Service) ListLikes(ctx context.Context, postID int64) ([]model.Like, error) {
	if s.likes == nil {
		return nil, fmt.Errorf("like store is nil")
	}
	if postID <= 0 {
		return nil, ErrValidation
	}
	return s.likes.ListLikesByPost(ctx, postID)
}

// ToggleLike flips the caller's like on a post. Toggling twice restores
// the original count.
func (s *Service) ToggleLike(ctx context.Context, postID, userID int64) (bool, int, error) {
	if s.likes == nil || s.posts == nil {
		return false, 0, fmt.Errorf("like dependencies are not configured")
	}
	if postID <= 0 || userID <= 0 {
		return false, 0, ErrValidation
	}

	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, err
	}

	return s.likes.ToggleLike(ctx, postID, userID)
}
