package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/talelapse/a-board-view/internal/domain/model"
	chatsvc "github.com/talelapse/a-board-view/internal/services/chat"
	matchingsvc "github.com/talelapse/a-board-view/internal/services/matching"
	ratesvc "github.com/talelapse/a-board-view/internal/services/rate"
	"github.com/talelapse/a-board-view/internal/transport/http/dto"
	httperrors "github.com/talelapse/a-board-view/internal/transport/http/errors"
)

// PresenceChecker reports whether a user currently holds a live
// realtime connection.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID int64) (bool, error)
}

type MatchesHandler struct {
	matching *matchingsvc.Service
	chat     *chatsvc.Service
	limiter  *ratesvc.Limiter
	presence PresenceChecker
}

func NewMatchesHandler(matching *matchingsvc.Service, chat *chatsvc.Service, limiter *ratesvc.Limiter, presence PresenceChecker) *MatchesHandler {
	return &MatchesHandler{matching: matching, chat: chat, limiter: limiter, presence: presence}
}

func (h *MatchesHandler) Find(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, false)
}

// FindAI skips the human candidate pool.
func (h *MatchesHandler) FindAI(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, true)
}

func (h *MatchesHandler) find(w http.ResponseWriter, r *http.Request, forceBot bool) {
	if h.matching == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	var req dto.FindMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if h.limiter != nil {
		ok, retry, err := h.limiter.Allow(r.Context(), fmt.Sprintf("match_find:%d", req.UserID))
		if err == nil && !ok {
			writeTooManyRequests(w, int64(retry.Seconds()))
			return
		}
	}

	var (
		res matchingsvc.Result
		err error
	)
	if forceBot {
		res, err = h.matching.FindAI(r.Context(), req.UserID)
	} else {
		res, err = h.matching.Find(r.Context(), req.UserID)
	}
	if err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "user_id is required")
		case errors.Is(err, matchingsvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find match")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.FindMatchResponse{
		Match:   dto.NewMatchResponse(res.Match),
		Partner: dto.NewUserResponse(res.Partner),
		IsBot:   res.IsBot,
	})
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.matching == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	userID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	items, err := h.matching.List(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.NewMatchItemResponse(item, h.partnerOnline(r.Context(), item, userID)))
	}
	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: responseItems})
}

// partnerOnline reports whether the other side of the match can be
// reached right now. Bots always answer; humans are checked against
// presence, with lookup failures read as offline.
func (h *MatchesHandler) partnerOnline(ctx context.Context, item model.MatchWithUsers, userID int64) bool {
	partner := item.User2
	if item.User2ID == userID {
		partner = item.User1
	}
	if partner.IsBot {
		return true
	}
	if h.presence == nil {
		return false
	}
	online, err := h.presence.IsOnline(ctx, partner.ID)
	if err != nil {
		return false
	}
	return online
}

func (h *MatchesHandler) Messages(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	items, err := h.chat.History(r.Context(), matchID)
	if err != nil {
		switch {
		case errors.Is(err, chatsvc.ErrMatchNotFound):
			writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
		case errors.Is(err, chatsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load messages")
		}
		return
	}

	responseItems := make([]dto.ChatMessageResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.NewChatMessageResponse(item))
	}
	httperrors.Write(w, http.StatusOK, dto.ChatMessagesResponse{Items: responseItems})
}
