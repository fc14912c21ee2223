// Package bots manages synthetic chat partners: a pool of bot user
// records and the reply generation that animates them. Generation uses
// the OpenAI chat completions API when a key is configured and degrades
// to canned phrases otherwise; a reply is always produced.
package bots

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

var ErrValidation = errors.New("validation error")

// CompletionClient is the slice of the OpenAI client the service needs.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	MinPool     int
	MinBirthAge int
	MaxBirthAge int
	PromptTurns int
	Model       string
	MaxTokens   int
	Temperature float64
}

type Dependencies struct {
	Store storage.BotStore
	// Completions may be nil; the service then always answers with a
	// canned fallback phrase.
	Completions CompletionClient
	Logger      *zap.Logger
	// Intn overrides the random source (persona and identity selection).
	Intn func(int) int
	Now  func() time.Time
}

type Service struct {
	store       storage.BotStore
	completions CompletionClient
	logger      *zap.Logger
	cfg         Config
	intn        func(int) int
	now         func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.MinPool <= 0 {
		cfg.MinPool = 5
	}
	if cfg.MinBirthAge <= 0 {
		cfg.MinBirthAge = 20
	}
	if cfg.MaxBirthAge < cfg.MinBirthAge {
		cfg.MaxBirthAge = cfg.MinBirthAge
	}
	if cfg.PromptTurns <= 0 {
		cfg.PromptTurns = 6
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 150
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	intn := deps.Intn
	if intn == nil {
		intn = rand.Intn
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		store:       deps.Store,
		completions: deps.Completions,
		logger:      logger,
		cfg:         cfg,
		intn:        intn,
		now:         now,
	}
}

func (s *Service) CreateBot(ctx context.Context, birthYear int, gender enums.Gender) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("bot store is nil")
	}
	if birthYear <= 0 || !gender.Valid() {
		return model.User{}, ErrValidation
	}

	return s.store.CreateBot(ctx, birthYear, gender)
}

// CreateRandomBot manufactures a bot with a random plausible identity.
func (s *Service) CreateRandomBot(ctx context.Context) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("bot store is nil")
	}

	ageSpan := s.cfg.MaxBirthAge - s.cfg.MinBirthAge + 1
	birthYear := s.now().Year() - (s.cfg.MinBirthAge + s.intn(ageSpan))

	gender := enums.GenderA
	if s.intn(2) == 1 {
		gender = enums.GenderB
	}

	return s.store.CreateBot(ctx, birthYear, gender)
}

// GetOrCreateBot returns a uniformly random existing bot, creating one
// when the pool is empty.
func (s *Service) GetOrCreateBot(ctx context.Context) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("bot store is nil")
	}

	bot, err := s.store.RandomBot(ctx)
	if err == nil {
		return bot, nil
	}
	if !errors.Is(err, storage.ErrNoBots) {
		return model.User{}, err
	}

	return s.CreateRandomBot(ctx)
}

// EnsureBotsExist tops the bot population up to the configured minimum.
// The check runs one bot at a time; concurrent callers may overshoot the
// minimum, which is accepted as benign.
func (s *Service) EnsureBotsExist(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("bot store is nil")
	}

	for i := 0; i < s.cfg.MinPool; i++ {
		count, err := s.store.CountBots(ctx)
		if err != nil {
			return err
		}
		if count >= s.cfg.MinPool {
			return nil
		}
		if _, err := s.CreateRandomBot(ctx); err != nil {
			return err
		}
	}

	return nil
}

// GenerateReply produces a conversational reply to message given the
// recent history (oldest first, alternating user/bot turns). It never
// fails: backend errors and missing configuration both map to a canned
// fallback phrase.
func (s *Service) GenerateReply(ctx context.Context, message string, history []string) string {
	if s.completions == nil {
		return s.fallbackReply()
	}

	p := personas[s.intn(len(personas))]

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.prompt + "\n\n" + conversationRules,
		},
	}

	turns := history
	if len(turns) > s.cfg.PromptTurns {
		turns = turns[len(turns)-s.cfg.PromptTurns:]
	}
	for i, turn := range turns {
		role := openai.ChatMessageRoleUser
		if i%2 == 1 {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := s.completions.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: float32(s.cfg.Temperature),
	})
	if err != nil {
		s.logger.Warn("bot reply generation failed, using fallback", zap.Error(err))
		return s.fallbackReply()
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return apologyReply
	}

	return resp.Choices[0].Message.Content
}

func (s *Service) fallbackReply() string {
	return fallbackReplies[s.intn(len(fallbackReplies))]
}
