package handlers

import (
	"errors"
	"net/http"

	postssvc "github.com/talelapse/a-board-view/internal/services/posts"
	"github.com/talelapse/a-board-view/internal/transport/http/dto"
	httperrors "github.com/talelapse/a-board-view/internal/transport/http/errors"
)

type PostsHandler struct {
	service *postssvc.Service
}

func NewPostsHandler(service *postssvc.Service) *PostsHandler {
	return &PostsHandler{service: service}
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	items, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load posts")
		return
	}

	responseItems := make([]dto.PostResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.NewPostResponse(item))
	}
	httperrors.Write(w, http.StatusOK, dto.PostsResponse{Items: responseItems})
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	var req dto.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	post, err := h.service.Create(r.Context(), req.UserID, req.Content, req.ImageURL)
	if err != nil {
		h.writeError(w, err, "failed to create post")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewPostResponse(post))
}

func (h *PostsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := urlParamInt64(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	items, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		h.writeError(w, err, "failed to load comments")
		return
	}

	responseItems := make([]dto.CommentResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.NewCommentResponse(item))
	}
	httperrors.Write(w, http.StatusOK, dto.CommentsResponse{Items: responseItems})
}

func (h *PostsHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := urlParamInt64(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	var req dto.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	comment, err := h.service.CreateComment(r.Context(), postID, req.UserID, req.Content)
	if err != nil {
		h.writeError(w, err, "failed to create comment")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewCommentResponse(comment))
}

func (h *PostsHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := urlParamInt64(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	items, err := h.service.ListLikes(r.Context(), postID)
	if err != nil {
		h.writeError(w, err, "failed to load likes")
		return
	}

	responseItems := make([]dto.LikeResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.LikeResponse{
			ID:     item.ID,
			PostID: item.PostID,
			UserID: item.UserID,
		})
	}
	httperrors.Write(w, http.StatusOK, dto.LikesResponse{Items: responseItems})
}

func (h *PostsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POSTS_SERVICE_UNAVAILABLE", "posts service is unavailable")
		return
	}

	postID, ok := urlParamInt64(r, "postID")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid post id")
		return
	}

	var req dto.ToggleLikeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	liked, count, err := h.service.ToggleLike(r.Context(), postID, req.UserID)
	if err != nil {
		h.writeError(w, err, "failed to toggle like")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ToggleLikeResponse{Liked: liked, LikeCount: count})
}

func (h *PostsHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, postssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, postssvc.ErrPostNotFound):
		writeNotFound(w, "POST_NOT_FOUND", "post not found")
	case errors.Is(err, postssvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}
