package handlers

import (
	"net/http"

	httperrors "github.com/talelapse/a-board-view/internal/transport/http/errors"
)

// HealthHandler reports liveness plus which storage backend is active,
// so degraded mode is visible to operators.
type HealthHandler struct {
	storageMode string
}

func NewHealthHandler(storageMode string) *HealthHandler {
	if storageMode == "" {
		storageMode = "unknown"
	}
	return &HealthHandler{storageMode: storageMode}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
	}{
		Status:  "ok",
		Storage: h.storageMode,
	})
}
