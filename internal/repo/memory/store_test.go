package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/storage"
)

func TestUserIDsAreMaxPlusOne(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u1, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	u2, _ := store.CreateUser(ctx, 1996, enums.GenderB)
	if u1.ID != 1 || u2.ID != 2 {
		t.Fatalf("ids = %d, %d", u1.ID, u2.ID)
	}

	if _, err := store.GetUser(ctx, 404); !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestListCandidatesExcludesSelfAndBots(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	me, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	other, _ := store.CreateUser(ctx, 1996, enums.GenderB)
	store.CreateBot(ctx, 1990, enums.GenderA)

	items, err := store.ListCandidates(ctx, me.ID)
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(items) != 1 || items[0].ID != other.ID {
		t.Fatalf("candidates = %+v", items)
	}
}

func TestRandomBotUsesInjectedRand(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, err := store.RandomBot(ctx); !errors.Is(err, storage.ErrNoBots) {
		t.Fatal("expected ErrNoBots from empty pool")
	}

	store.CreateBot(ctx, 1990, enums.GenderA)
	second, _ := store.CreateBot(ctx, 1991, enums.GenderB)
	store.SetRand(func(n int) int { return n - 1 })

	bot, err := store.RandomBot(ctx)
	if err != nil {
		t.Fatalf("RandomBot: %v", err)
	}
	if bot.ID != second.ID {
		t.Errorf("bot = %d, want %d", bot.ID, second.ID)
	}
}

func TestListPostsNewestFirstWithAuthor(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	author, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	store.CreatePost(ctx, author.ID, "first", "")
	store.CreatePost(ctx, author.ID, "second", "")

	items, err := store.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].Content != "second" {
		t.Errorf("first item = %q, want newest", items[0].Content)
	}
	if items[0].Author.ID != author.ID {
		t.Errorf("author = %+v", items[0].Author)
	}
}

func TestToggleLikeRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	post, _ := store.CreatePost(ctx, u.ID, "hello", "")

	liked, count, err := store.ToggleLike(ctx, post.ID, u.ID)
	if err != nil || !liked || count != 1 {
		t.Fatalf("first toggle = (%v, %d, %v)", liked, count, err)
	}
	liked, count, err = store.ToggleLike(ctx, post.ID, u.ID)
	if err != nil || liked || count != 0 {
		t.Fatalf("second toggle = (%v, %d, %v)", liked, count, err)
	}
}

func TestCreateMatchRejectsSelf(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	if _, err := store.CreateMatch(ctx, u.ID, u.ID); !errors.Is(err, storage.ErrSelfMatch) {
		t.Fatalf("err = %v, want ErrSelfMatch", err)
	}
}

func TestChatMessagesKeepCreationOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u1, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	u2, _ := store.CreateUser(ctx, 1996, enums.GenderB)
	match, _ := store.CreateMatch(ctx, u1.ID, u2.ID)

	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	store.CreateChatMessage(ctx, match.ID, u1.ID, "one")
	store.CreateChatMessage(ctx, match.ID, u2.ID, "two")

	items, err := store.ListChatMessages(ctx, match.ID)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(items) != 2 || items[0].Content != "one" || items[1].Content != "two" {
		t.Fatalf("items = %+v", items)
	}
	if !items[0].CreatedAt.Equal(now) {
		t.Errorf("created_at = %v", items[0].CreatedAt)
	}
}
