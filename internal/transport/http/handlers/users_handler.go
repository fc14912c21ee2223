package handlers

import (
	"errors"
	"net/http"

	"github.com/talelapse/a-board-view/internal/domain/enums"
	userssvc "github.com/talelapse/a-board-view/internal/services/users"
	"github.com/talelapse/a-board-view/internal/transport/http/dto"
	httperrors "github.com/talelapse/a-board-view/internal/transport/http/errors"
)

type UsersHandler struct {
	service *userssvc.Service
}

func NewUsersHandler(service *userssvc.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req.BirthYear, enums.Gender(req.Gender))
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "birth_year and gender are required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create user")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewUserResponse(user))
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	id, ok := urlParamInt64(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewUserResponse(user))
}
