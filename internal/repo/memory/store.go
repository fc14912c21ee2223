// Package memory is the process-local storage implementation. It backs
// unit tests and keeps the API serving when postgres is unreachable at
// startup (degraded mode). Ids follow the max-existing-id+1 pattern,
// serialized by the store mutex.
package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

var (
	_ storage.UserStore        = (*Store)(nil)
	_ storage.BotStore         = (*Store)(nil)
	_ storage.PostStore        = (*Store)(nil)
	_ storage.CommentStore     = (*Store)(nil)
	_ storage.LikeStore        = (*Store)(nil)
	_ storage.MatchStore       = (*Store)(nil)
	_ storage.ChatMessageStore = (*Store)(nil)
)

type Store struct {
	mu sync.Mutex

	users    []model.User
	posts    []model.Post
	comments []model.Comment
	likes    []model.Like
	matches  []model.Match
	messages []model.ChatMessage

	now  func() time.Time
	intn func(int) int
}

func NewStore() *Store {
	return &Store{
		now:  time.Now,
		intn: rand.Intn,
	}
}

// SetClock overrides the store clock. Test helper.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.now = now
	}
}

// SetRand overrides the random index source used by RandomBot. Test helper.
func (s *Store) SetRand(intn func(int) int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if intn != nil {
		s.intn = intn
	}
}

func (s *Store) CreateUser(_ context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	return s.insertUser(birthYear, gender, false), nil
}

func (s *Store) CreateBot(_ context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	return s.insertUser(birthYear, gender, true), nil
}

func (s *Store) insertUser(birthYear int, gender enums.Gender, isBot bool) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := model.User{
		ID:        s.nextUserID(),
		BirthYear: birthYear,
		Gender:    gender,
		IsBot:     isBot,
		CreatedAt: s.now(),
	}
	s.users = append(s.users, user)
	return user
}

func (s *Store) GetUser(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, storage.ErrUserNotFound
}

func (s *Store) ListCandidates(_ context.Context, excludeID int64) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.User
	for _, user := range s.users {
		if user.ID != excludeID && !user.IsBot {
			items = append(items, user)
		}
	}
	return items, nil
}

func (s *Store) RandomBot(_ context.Context) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bots []model.User
	for _, user := range s.users {
		if user.IsBot {
			bots = append(bots, user)
		}
	}
	if len(bots) == 0 {
		return model.User{}, storage.ErrNoBots
	}
	return bots[s.intn(len(bots))], nil
}

func (s *Store) CountBots(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, user := range s.users {
		if user.IsBot {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreatePost(ctx context.Context, userID int64, content, imageURL string) (model.Post, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return model.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := model.Post{
		ID:        nextID(s.posts, func(p model.Post) int64 { return p.ID }),
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	s.posts = append(s.posts, post)
	return post, nil
}

func (s *Store) GetPost(_ context.Context, id int64) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return model.Post{}, storage.ErrPostNotFound
}

func (s *Store) ListPosts(_ context.Context) ([]model.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first, matching the postgres ordering.
	items := make([]model.PostWithAuthor, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		post := s.posts[i]
		items = append(items, model.PostWithAuthor{
			Post:   post,
			Author: s.userByIDLocked(post.UserID),
		})
	}
	return items, nil
}

func (s *Store) CreateComment(ctx context.Context, postID, userID int64, content string) (model.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return model.Comment{}, err
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return model.Comment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	comment := model.Comment{
		ID:        nextID(s.comments, func(c model.Comment) int64 { return c.ID }),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.comments = append(s.comments, comment)
	return comment, nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID int64) ([]model.CommentWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.CommentWithAuthor
	for _, comment := range s.comments {
		if comment.PostID != postID {
			continue
		}
		items = append(items, model.CommentWithAuthor{
			Comment: comment,
			Author:  s.userByIDLocked(comment.UserID),
		})
	}
	return items, nil
}

func (s *Store) ListLikesByPost(_ context.Context, postID int64) ([]model.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.Like
	for _, like := range s.likes {
		if like.PostID == postID {
			items = append(items, like)
		}
	}
	return items, nil
}

func (s *Store) ToggleLike(_ context.Context, postID, userID int64) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	liked := true
	for i, like := range s.likes {
		if like.PostID == postID && like.UserID == userID {
			s.likes = append(s.likes[:i], s.likes[i+1:]...)
			liked = false
			break
		}
	}
	if liked {
		s.likes = append(s.likes, model.Like{
			ID:     nextID(s.likes, func(l model.Like) int64 { return l.ID }),
			PostID: postID,
			UserID: userID,
		})
	}

	count := 0
	for _, like := range s.likes {
		if like.PostID == postID {
			count++
		}
	}
	return liked, count, nil
}

func (s *Store) CreateMatch(_ context.Context, user1ID, user2ID int64) (model.Match, error) {
	if user1ID == user2ID {
		return model.Match{}, storage.ErrSelfMatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	match := model.Match{
		ID:        nextID(s.matches, func(m model.Match) int64 { return m.ID }),
		User1ID:   user1ID,
		User2ID:   user2ID,
		CreatedAt: s.now(),
	}
	s.matches = append(s.matches, match)
	return match, nil
}

func (s *Store) GetMatch(_ context.Context, matchID int64) (model.MatchWithUsers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, match := range s.matches {
		if match.ID == matchID {
			return model.MatchWithUsers{
				Match: match,
				User1: s.userByIDLocked(match.User1ID),
				User2: s.userByIDLocked(match.User2ID),
			}, nil
		}
	}
	return model.MatchWithUsers{}, storage.ErrMatchNotFound
}

func (s *Store) ListMatchesForUser(_ context.Context, userID int64) ([]model.MatchWithUsers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.MatchWithUsers
	for i := len(s.matches) - 1; i >= 0; i-- {
		match := s.matches[i]
		if match.User1ID != userID && match.User2ID != userID {
			continue
		}
		items = append(items, model.MatchWithUsers{
			Match: match,
			User1: s.userByIDLocked(match.User1ID),
			User2: s.userByIDLocked(match.User2ID),
		})
	}
	return items, nil
}

func (s *Store) CreateChatMessage(_ context.Context, matchID, senderID int64, content string) (model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.ChatMessage{
		ID:        nextID(s.messages, func(m model.ChatMessage) int64 { return m.ID }),
		MatchID:   matchID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *Store) ListChatMessages(_ context.Context, matchID int64) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []model.ChatMessage
	for _, msg := range s.messages {
		if msg.MatchID == matchID {
			items = append(items, msg)
		}
	}
	return items, nil
}

func (s *Store) userByIDLocked(id int64) model.User {
	for _, user := range s.users {
		if user.ID == id {
			return user
		}
	}
	return model.User{ID: id}
}

func (s *Store) nextUserID() int64 {
	return nextID(s.users, func(u model.User) int64 { return u.ID })
}

func nextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
