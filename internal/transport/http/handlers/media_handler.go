package handlers

import (
	"errors"
	"net/http"

	mediasvc "github.com/talelapse/a-board-view/internal/services/media"
	"github.com/talelapse/a-board-view/internal/transport/http/dto"
	httperrors "github.com/talelapse/a-board-view/internal/transport/http/errors"
)

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// Presign hands out a short-lived direct-to-storage upload URL.
func (h *MediaHandler) Presign(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media uploads are not configured")
		return
	}

	var req dto.PresignUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	grant, err := h.service.Presign(r.Context(), req.UserID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, mediasvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported content type")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to presign upload")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PresignUploadResponse{
		UploadURL: grant.UploadURL,
		ObjectKey: grant.ObjectKey,
		PublicURL: grant.PublicURL,
		ExpiresIn: grant.ExpiresIn,
	})
}
