// Package chat persists and routes in-match messages. Delivery over
// websockets and bot reply scheduling live in the transport layer; this
// package owns the participant checks and the message history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talelapse/a-board-view/internal/domain/model"
	"github.com/talelapse/a-board-view/internal/storage"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("sender is not a match participant")
)

const maxMessageLen = 2000

// replyGenerator is the slice of the bots service chat needs.
type replyGenerator interface {
	GenerateReply(ctx context.Context, message string, history []string) string
}

type Config struct {
	// HistoryLimit caps how many stored messages feed a bot reply.
	HistoryLimit int
}

type Dependencies struct {
	Matches  storage.MatchStore
	Messages storage.ChatMessageStore
	Bots     replyGenerator
	Logger   *zap.Logger
}

type Service struct {
	matches  storage.MatchStore
	messages storage.ChatMessageStore
	bots     replyGenerator
	logger   *zap.Logger
	cfg      Config
}

// SendResult carries everything the realtime layer needs to route a
// stored message.
type SendResult struct {
	Message        model.ChatMessage
	Sender         model.User
	RecipientID    int64
	RecipientIsBot bool
}

// BotReplyResult carries the stored reply together with the bot's user
// record for the pushed frame.
type BotReplyResult struct {
	Message model.ChatMessage
	Sender  model.User
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		matches:  deps.Matches,
		messages: deps.Messages,
		bots:     deps.Bots,
		logger:   logger,
		cfg:      cfg,
	}
}

// Send stores a message from senderID in matchID and resolves the
// recipient. The sender must be one of the two match participants.
func (s *Service) Send(ctx context.Context, matchID, senderID int64, content string) (SendResult, error) {
	if s.matches == nil || s.messages == nil {
		return SendResult{}, fmt.Errorf("chat dependencies are not configured")
	}

	content = strings.TrimSpace(content)
	if matchID <= 0 || senderID <= 0 || content == "" || len(content) > maxMessageLen {
		return SendResult{}, ErrValidation
	}

	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, storage.ErrMatchNotFound) {
			return SendResult{}, ErrMatchNotFound
		}
		return SendResult{}, err
	}

	recipientID, ok := match.OtherParticipant(senderID)
	if !ok {
		return SendResult{}, ErrNotParticipant
	}

	msg, err := s.messages.CreateChatMessage(ctx, matchID, senderID, content)
	if err != nil {
		return SendResult{}, err
	}

	sender, recipient := match.User1, match.User2
	if recipientID == match.User1ID {
		sender, recipient = match.User2, match.User1
	}

	return SendResult{
		Message:        msg,
		Sender:         sender,
		RecipientID:    recipientID,
		RecipientIsBot: recipient.IsBot,
	}, nil
}

// BotReply generates and stores botID's answer to the latest message in
// matchID. The prompt sees the last message as the user turn and up to
// HistoryLimit preceding messages as context.
func (s *Service) BotReply(ctx context.Context, matchID, botID int64) (BotReplyResult, error) {
	if s.matches == nil || s.messages == nil || s.bots == nil {
		return BotReplyResult{}, fmt.Errorf("chat dependencies are not configured")
	}
	if matchID <= 0 || botID <= 0 {
		return BotReplyResult{}, ErrValidation
	}

	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, storage.ErrMatchNotFound) {
			return BotReplyResult{}, ErrMatchNotFound
		}
		return BotReplyResult{}, err
	}
	if _, ok := match.OtherParticipant(botID); !ok {
		return BotReplyResult{}, ErrNotParticipant
	}

	stored, err := s.messages.ListChatMessages(ctx, matchID)
	if err != nil {
		return BotReplyResult{}, err
	}
	if len(stored) == 0 {
		return BotReplyResult{}, ErrValidation
	}
	if tail := stored[len(stored)-1]; tail.SenderID == botID {
		// Latest turn is already the bot's; nothing to answer.
		return BotReplyResult{}, ErrValidation
	}

	if len(stored) > s.cfg.HistoryLimit {
		stored = stored[len(stored)-s.cfg.HistoryLimit:]
	}

	message := stored[len(stored)-1].Content
	history := make([]string, 0, len(stored)-1)
	for _, m := range stored[:len(stored)-1] {
		history = append(history, m.Content)
	}

	reply := s.bots.GenerateReply(ctx, message, history)

	msg, err := s.messages.CreateChatMessage(ctx, matchID, botID, reply)
	if err != nil {
		return BotReplyResult{}, err
	}

	botUser := match.User1
	if botID == match.User2ID {
		botUser = match.User2
	}

	s.logger.Debug("stored bot reply",
		zap.Int64("match_id", matchID),
		zap.Int64("bot_id", botID),
	)
	return BotReplyResult{Message: msg, Sender: botUser}, nil
}

// History returns matchID's messages in creation order.
func (s *Service) History(ctx context.Context, matchID int64) ([]model.ChatMessage, error) {
	if s.matches == nil || s.messages == nil {
		return nil, fmt.Errorf("chat dependencies are not configured")
	}
	if matchID <= 0 {
		return nil, ErrValidation
	}

	if _, err := s.matches.GetMatch(ctx, matchID); err != nil {
		if errors.Is(err, storage.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	return s.messages.ListChatMessages(ctx, matchID)
}
