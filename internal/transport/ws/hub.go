// Package ws is the realtime chat transport. A Hub owns every live
// connection and the pending bot reply timers, so shutdown can stop
// both cleanly. Clients authenticate with a first auth frame and then
// exchange chat_message frames.
package ws

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/talelapse/a-board-view/internal/services/chat"
)

const botReplyTimeout = 30 * time.Second

// ChatService is the slice of the chat service the hub needs.
type ChatService interface {
	Send(ctx context.Context, matchID, senderID int64, content string) (chat.SendResult, error)
	BotReply(ctx context.Context, matchID, botID int64) (chat.BotReplyResult, error)
}

// PresenceTracker mirrors connection state into shared storage. May be
// nil when redis is not configured.
type PresenceTracker interface {
	MarkOnline(ctx context.Context, userID int64) error
	MarkOffline(ctx context.Context, userID int64) error
}

type Config struct {
	ReplyDelayMin   time.Duration
	ReplyDelayMax   time.Duration
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageBytes int64
	SendBuffer      int
}

type Dependencies struct {
	Chat     ChatService
	Presence PresenceTracker
	Logger   *zap.Logger
	// Intn overrides the random source used for bot reply delays.
	Intn func(int) int
}

type Hub struct {
	chat     ChatService
	presence PresenceTracker
	logger   *zap.Logger
	cfg      Config
	intn     func(int) int

	mu        sync.Mutex
	sessions  map[int64]*session
	timers    map[int64]*time.Timer
	// userTimers maps a recipient user id to their pending timer ids so
	// closing a session can stop its bot replies.
	userTimers map[int64]map[int64]struct{}
	nextTimer  int64
	closed     bool
}

func NewHub(deps Dependencies, cfg Config) *Hub {
	if cfg.ReplyDelayMin <= 0 {
		cfg.ReplyDelayMin = time.Second
	}
	if cfg.ReplyDelayMax < cfg.ReplyDelayMin {
		cfg.ReplyDelayMax = cfg.ReplyDelayMin
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = 60 * time.Second
	}
	if cfg.PingInterval <= 0 || cfg.PingInterval >= cfg.PongTimeout {
		cfg.PingInterval = cfg.PongTimeout * 9 / 10
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 16 << 10
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 32
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	intn := deps.Intn
	if intn == nil {
		intn = rand.Intn
	}

	return &Hub{
		chat:       deps.Chat,
		presence:   deps.Presence,
		logger:     logger,
		cfg:        cfg,
		intn:       intn,
		sessions:   make(map[int64]*session),
		timers:     make(map[int64]*time.Timer),
		userTimers: make(map[int64]map[int64]struct{}),
	}
}

// register adds s as the live session for its user. A second connection
// for the same user replaces the first.
func (h *Hub) register(s *session) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return fmt.Errorf("hub is shut down")
	}
	prev := h.sessions[s.userID]
	h.sessions[s.userID] = s
	h.mu.Unlock()

	if prev != nil {
		prev.close()
	}
	h.markOnline(s.userID)
	return nil
}

// unregister drops s if it is still the user's current session and
// stops any bot replies still pending for that user.
func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	current := h.sessions[s.userID] == s
	var stopped []*time.Timer
	if current {
		delete(h.sessions, s.userID)
		for id := range h.userTimers[s.userID] {
			if timer := h.timers[id]; timer != nil {
				stopped = append(stopped, timer)
				delete(h.timers, id)
			}
		}
		delete(h.userTimers, s.userID)
	}
	h.mu.Unlock()

	for _, timer := range stopped {
		timer.Stop()
	}
	if current {
		h.markOffline(s.userID)
	}
}

// Online reports whether userID holds a live session on this hub.
func (h *Hub) Online(userID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sessions[userID]
	return ok
}

// deliver queues frame for userID and reports whether a session took it.
func (h *Hub) deliver(userID int64, frame serverFrame) bool {
	h.mu.Lock()
	s := h.sessions[userID]
	h.mu.Unlock()

	if s == nil {
		return false
	}
	return s.enqueue(frame)
}

// handleChatMessage stores a message and routes it to the recipient
// only; the sender renders its own message optimistically and never
// gets it echoed back. Errors come back as error frames on the
// sender's connection.
func (h *Hub) handleChatMessage(ctx context.Context, s *session, frame clientFrame) {
	res, err := h.chat.Send(ctx, frame.MatchID, s.userID, frame.Content)
	if err != nil {
		s.enqueue(errorFrame(sendErrorText(err)))
		return
	}

	if res.RecipientIsBot {
		h.scheduleBotReply(res.Message.MatchID, res.RecipientID, s.userID)
		return
	}

	if !h.deliver(res.RecipientID, messageFrame(res.Message, res.Sender)) {
		h.logger.Debug("recipient offline, message stored only",
			zap.Int64("recipient_id", res.RecipientID),
			zap.Int64("match_id", res.Message.MatchID),
		)
	}
}

// scheduleBotReply arms a one-shot timer that generates the bot's
// answer after a humanlike delay. Timers belong to the hub and are
// stopped when the waiting session closes or the hub shuts down.
func (h *Hub) scheduleBotReply(matchID, botID, userID int64) {
	delay := h.cfg.ReplyDelayMin
	if span := h.cfg.ReplyDelayMax - h.cfg.ReplyDelayMin; span > 0 {
		delay += time.Duration(h.intn(int(span) + 1))
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.nextTimer++
	id := h.nextTimer
	h.timers[id] = time.AfterFunc(delay, func() {
		h.fireBotReply(id, matchID, botID, userID)
	})
	set := h.userTimers[userID]
	if set == nil {
		set = make(map[int64]struct{})
		h.userTimers[userID] = set
	}
	set[id] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) fireBotReply(timerID, matchID, botID, userID int64) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if _, pending := h.timers[timerID]; !pending {
		// Stopped by unregister while this callback was racing it.
		h.mu.Unlock()
		return
	}
	delete(h.timers, timerID)
	if set := h.userTimers[userID]; set != nil {
		delete(set, timerID)
		if len(set) == 0 {
			delete(h.userTimers, userID)
		}
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), botReplyTimeout)
	defer cancel()

	res, err := h.chat.BotReply(ctx, matchID, botID)
	if err != nil {
		// Validation covers the bot-spoke-last race; nothing to send.
		if !errors.Is(err, chat.ErrValidation) {
			h.logger.Warn("bot reply failed",
				zap.Error(err),
				zap.Int64("match_id", matchID),
				zap.Int64("bot_id", botID),
			)
		}
		return
	}

	h.deliver(userID, messageFrame(res.Message, res.Sender))
}

// Shutdown stops every pending bot timer and closes every session.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true

	for id, timer := range h.timers {
		timer.Stop()
		delete(h.timers, id)
	}
	h.userTimers = make(map[int64]map[int64]struct{})
	sessions := make([]*session, 0, len(h.sessions))
	for id, s := range h.sessions {
		sessions = append(sessions, s)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
		h.markOfflineCtx(ctx, s.userID)
	}
}

func (h *Hub) markOnline(userID int64) {
	if h.presence == nil {
		return
	}
	if err := h.presence.MarkOnline(context.Background(), userID); err != nil {
		h.logger.Warn("mark online failed", zap.Error(err), zap.Int64("user_id", userID))
	}
}

// refreshPresence re-arms the presence TTL; called from the pong
// handler so long-lived connections stay marked online.
func (h *Hub) refreshPresence(userID int64) {
	h.markOnline(userID)
}

func (h *Hub) markOffline(userID int64) {
	h.markOfflineCtx(context.Background(), userID)
}

func (h *Hub) markOfflineCtx(ctx context.Context, userID int64) {
	if h.presence == nil {
		return
	}
	if err := h.presence.MarkOffline(ctx, userID); err != nil {
		h.logger.Warn("mark offline failed", zap.Error(err), zap.Int64("user_id", userID))
	}
}

func sendErrorText(err error) string {
	switch {
	case errors.Is(err, chat.ErrValidation):
		return "invalid message"
	case errors.Is(err, chat.ErrMatchNotFound):
		return "match not found"
	case errors.Is(err, chat.ErrNotParticipant):
		return "not a participant of this match"
	default:
		return "failed to send message"
	}
}
