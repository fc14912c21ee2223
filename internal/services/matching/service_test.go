package matching

import (
	"context"
	"testing"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/repo/memory"
	"github.com/talelapse/a-board-view/internal/services/bots"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	botSvc := bots.NewService(bots.Dependencies{Store: store}, bots.Config{MinPool: 5})

	svc := NewService(Dependencies{
		Users:   store,
		Matches: store,
		Bots:    botSvc,
		Intn:    func(int) int { return 0 },
	})
	return svc, store
}

func TestFindPairsTwoHumans(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u1, err := store.CreateUser(ctx, 1995, enums.GenderA)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u2, err := store.CreateUser(ctx, 1998, enums.GenderB)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	res, err := svc.Find(ctx, u1.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.IsBot {
		t.Error("expected a human partner")
	}
	if res.Partner.ID != u2.ID {
		t.Errorf("partner = %d, want %d", res.Partner.ID, u2.ID)
	}
	if other, ok := res.Match.OtherParticipant(u1.ID); !ok || other != u2.ID {
		t.Errorf("match participants = (%d, %d)", res.Match.User1ID, res.Match.User2ID)
	}
}

func TestFindFallsBackToBot(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, 1995, enums.GenderA)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	res, err := svc.Find(ctx, u.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !res.IsBot {
		t.Error("expected a bot partner")
	}
	if !res.Partner.IsBot {
		t.Error("partner user is not flagged as bot")
	}

	count, err := store.CountBots(ctx)
	if err != nil {
		t.Fatalf("CountBots: %v", err)
	}
	if count != 5 {
		t.Errorf("bot pool = %d, want 5", count)
	}
}

func TestFindIgnoresBotsAsCandidates(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, 1995, enums.GenderA)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateBot(ctx, 1990, enums.GenderB); err != nil {
		t.Fatalf("create bot: %v", err)
	}

	res, err := svc.Find(ctx, u.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !res.IsBot {
		t.Error("bots must not be matched as human candidates")
	}
}

func TestFindAIAlwaysPicksBot(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u1, err := store.CreateUser(ctx, 1995, enums.GenderA)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateUser(ctx, 1998, enums.GenderB); err != nil {
		t.Fatalf("create user: %v", err)
	}

	res, err := svc.FindAI(ctx, u1.ID)
	if err != nil {
		t.Fatalf("FindAI: %v", err)
	}
	if !res.IsBot {
		t.Error("expected a bot partner despite available humans")
	}
}

func TestFindUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Find(context.Background(), 404); err != ErrUserNotFound {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u1, _ := store.CreateUser(ctx, 1995, enums.GenderA)
	u2, _ := store.CreateUser(ctx, 1998, enums.GenderB)

	first, err := store.CreateMatch(ctx, u1.ID, u2.ID)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	second, err := store.CreateMatch(ctx, u1.ID, u2.ID)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	matches, err := svc.List(ctx, u1.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].ID != second.ID || matches[1].ID != first.ID {
		t.Errorf("order = [%d, %d], want newest first", matches[0].ID, matches[1].ID)
	}
}
