package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/model"
	"github.com/avolkov/authd/internal/service"
)

// UserHandler exposes profile CRUD over HTTP. All routes sit behind the
// request gate.
type UserHandler struct {
	users  *service.Users
	logger *logger.Logger
}

func NewUserHandler(users *service.Users, logger *logger.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
	Role      *int    `json:"role"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err.Error())
		writeError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid user id"})
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if req.Email == nil && req.FirstName == nil && req.LastName == nil && req.Password == nil && req.Role == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "no fields to update"})
		return
	}

	params := service.UpdateParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
	if req.Role != nil {
		role := model.RoleFromInt(*req.Role)
		params.Role = &role
	}

	user, err := h.users.Update(r.Context(), id, params)
	if err != nil {
		h.logger.Debug("failed to update user", "user_id", id, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid user id"})
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.logger.Debug("failed to delete user", "user_id", id, "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}
