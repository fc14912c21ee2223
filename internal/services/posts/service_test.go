package posts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/repo/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store, model.User) {
	t.Helper()

	store := memory.NewStore()
	author, err := store.CreateUser(context.Background(), 1995, enums.GenderA)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc := NewService(Dependencies{
		Posts:    store,
		Comments: store,
		Likes:    store,
		Users:    store,
	})
	return svc, store, author
}

func TestCreateAndListPosts(t *testing.T) {
	svc, _, author := newTestService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, "  hello board  ", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Content != "hello board" {
		t.Errorf("content = %q, want trimmed", post.Content)
	}
	if post.Author.ID != author.ID {
		t.Errorf("author = %+v", post.Author)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != post.ID {
		t.Fatalf("items = %+v", items)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, author := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, author.ID, "   ", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank content err = %v", err)
	}
	if _, err := svc.Create(ctx, author.ID, strings.Repeat("a", maxContentLen+1), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversize content err = %v", err)
	}
	if _, err := svc.Create(ctx, 404, "hello", ""); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown author err = %v", err)
	}
}

func TestComments(t *testing.T) {
	svc, store, author := newTestService(t)
	ctx := context.Background()

	post, _ := store.CreatePost(ctx, author.ID, "hello", "")

	comment, err := svc.CreateComment(ctx, post.ID, author.ID, "nice one")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if comment.PostID != post.ID || comment.Author.ID != author.ID {
		t.Errorf("comment = %+v", comment)
	}

	if _, err := svc.CreateComment(ctx, 404, author.ID, "hi"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("unknown post err = %v", err)
	}

	items, err := svc.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
}

func TestToggleLike(t *testing.T) {
	svc, store, author := newTestService(t)
	ctx := context.Background()

	post, _ := store.CreatePost(ctx, author.ID, "hello", "")

	liked, count, err := svc.ToggleLike(ctx, post.ID, author.ID)
	if err != nil || !liked || count != 1 {
		t.Fatalf("first toggle = (%v, %d, %v)", liked, count, err)
	}
	liked, count, err = svc.ToggleLike(ctx, post.ID, author.ID)
	if err != nil || liked || count != 0 {
		t.Fatalf("second toggle = (%v, %d, %v)", liked, count, err)
	}

	if _, _, err := svc.ToggleLike(ctx, 404, author.ID); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("unknown post err = %v", err)
	}
}
