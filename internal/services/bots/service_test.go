package bots

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

type stubBotStore struct {
	bots      []model.User
	createErr error
}

func (s *stubBotStore) CreateBot(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	if s.createErr != nil {
		return model.User{}, s.createErr
	}
	bot := model.User{
		ID:        int64(len(s.bots) + 1),
		BirthYear: birthYear,
		Gender:    gender,
		IsBot:     true,
	}
	s.bots = append(s.bots, bot)
	return bot, nil
}

func (s *stubBotStore) RandomBot(ctx context.Context) (model.User, error) {
	if len(s.bots) == 0 {
		return model.User{}, storage.ErrNoBots
	}
	return s.bots[0], nil
}

func (s *stubBotStore) CountBots(ctx context.Context) (int, error) {
	return len(s.bots), nil
}

type stubCompletions struct {
	resp openai.ChatCompletionResponse
	err  error
	got  openai.ChatCompletionRequest
}

func (c *stubCompletions) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.got = req
	return c.resp, c.err
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func TestEnsureBotsExistFillsPool(t *testing.T) {
	store := &stubBotStore{}
	svc := NewService(Dependencies{Store: store, Now: fixedNow}, Config{MinPool: 5})

	if err := svc.EnsureBotsExist(context.Background()); err != nil {
		t.Fatalf("EnsureBotsExist: %v", err)
	}
	if len(store.bots) != 5 {
		t.Fatalf("expected 5 bots, got %d", len(store.bots))
	}

	// Second call is a no-op.
	if err := svc.EnsureBotsExist(context.Background()); err != nil {
		t.Fatalf("second EnsureBotsExist: %v", err)
	}
	if len(store.bots) != 5 {
		t.Fatalf("expected pool to stay at 5, got %d", len(store.bots))
	}
}

func TestCreateRandomBotIdentity(t *testing.T) {
	store := &stubBotStore{}
	svc := NewService(Dependencies{
		Store: store,
		Now:   fixedNow,
		Intn:  func(n int) int { return n - 1 },
	}, Config{MinBirthAge: 20, MaxBirthAge: 35})

	bot, err := svc.CreateRandomBot(context.Background())
	if err != nil {
		t.Fatalf("CreateRandomBot: %v", err)
	}
	if want := 2025 - 35; bot.BirthYear != want {
		t.Errorf("birth year = %d, want %d", bot.BirthYear, want)
	}
	if bot.Gender != enums.GenderB {
		t.Errorf("gender = %q, want %q", bot.Gender, enums.GenderB)
	}
	if !bot.IsBot {
		t.Error("expected bot flag set")
	}
}

func TestGetOrCreateBotCreatesWhenEmpty(t *testing.T) {
	store := &stubBotStore{}
	svc := NewService(Dependencies{Store: store, Now: fixedNow}, Config{})

	bot, err := svc.GetOrCreateBot(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreateBot: %v", err)
	}
	if !bot.IsBot {
		t.Error("expected a bot user")
	}
	if len(store.bots) != 1 {
		t.Fatalf("expected 1 bot created, got %d", len(store.bots))
	}

	// An existing pool is reused, not grown.
	if _, err := svc.GetOrCreateBot(context.Background()); err != nil {
		t.Fatalf("second GetOrCreateBot: %v", err)
	}
	if len(store.bots) != 1 {
		t.Fatalf("expected pool to stay at 1, got %d", len(store.bots))
	}
}

func TestGenerateReplyFallbackWithoutClient(t *testing.T) {
	svc := NewService(Dependencies{Store: &stubBotStore{}}, Config{})

	reply := svc.GenerateReply(context.Background(), "hello", nil)
	if reply == "" {
		t.Fatal("expected a non-empty fallback reply")
	}

	found := false
	for _, phrase := range fallbackReplies {
		if reply == phrase {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("reply %q is not a known fallback phrase", reply)
	}
}

func TestGenerateReplyUsesRecentHistory(t *testing.T) {
	completions := &stubCompletions{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "nice to meet you"}},
			},
		},
	}
	svc := NewService(Dependencies{
		Store:       &stubBotStore{},
		Completions: completions,
		Intn:        func(int) int { return 0 },
	}, Config{PromptTurns: 6})

	history := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	reply := svc.GenerateReply(context.Background(), "hello", history)
	if reply != "nice to meet you" {
		t.Fatalf("reply = %q", reply)
	}

	// system prompt + last 6 turns + current message
	if len(completions.got.Messages) != 8 {
		t.Fatalf("expected 8 prompt messages, got %d", len(completions.got.Messages))
	}
	if completions.got.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q", completions.got.Messages[0].Role)
	}
	if got := completions.got.Messages[1].Content; got != "c" {
		t.Errorf("first history turn = %q, want %q", got, "c")
	}
	if got := completions.got.Messages[2].Role; got != openai.ChatMessageRoleAssistant {
		t.Errorf("second history role = %q, want assistant", got)
	}
	if last := completions.got.Messages[7]; last.Content != "hello" || last.Role != openai.ChatMessageRoleUser {
		t.Errorf("last message = %+v", last)
	}
}

func TestGenerateReplyFallbackOnError(t *testing.T) {
	completions := &stubCompletions{err: errors.New("upstream down")}
	svc := NewService(Dependencies{
		Store:       &stubBotStore{},
		Completions: completions,
		Intn:        func(int) int { return 0 },
	}, Config{})

	reply := svc.GenerateReply(context.Background(), "hello", nil)
	if reply != fallbackReplies[0] {
		t.Errorf("reply = %q, want first fallback phrase", reply)
	}
}

func TestGenerateReplyApologyOnEmptyCompletion(t *testing.T) {
	completions := &stubCompletions{}
	svc := NewService(Dependencies{Store: &stubBotStore{}, Completions: completions}, Config{})

	reply := svc.GenerateReply(context.Background(), "hello", nil)
	if reply != apologyReply {
		t.Errorf("reply = %q, want apology", reply)
	}
}
