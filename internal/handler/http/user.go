package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Invite(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	SetActive(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// List handles GET /users?role=&is_active=
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter user.ListUsersFilter
	if role := r.URL.Query().Get("role"); role != "" {
		filter.Role = &role
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			response.BadRequest(w, "is_active must be true or false", nil)
			return
		}
		filter.IsActive = &parsed
	}

	users, err := h.userService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Get handles GET /users/{id}
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	result, err := h.userService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Me handles GET /users/me
func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Invite handles POST /users
func (h *userHandlerImpl) Invite(w http.ResponseWriter, r *http.Request) {
	var req user.InviteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Invite decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.Invite(r.Context(), req)
	if err != nil {
		slog.Error("Invite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User invited", "user_id", result.ID)
	response.Created(w, "User invited successfully", result)
}

// UpdateRole handles PUT /users/{id}/role
func (h *userHandlerImpl) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	var req user.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.userService.UpdateRole(r.Context(), id, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Role updated successfully", nil)
}

// SetActive handles PUT /users/{id}/active
func (h *userHandlerImpl) SetActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	var req user.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.userService.SetActive(r.Context(), id, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User status updated successfully", nil)
}

// Delete handles DELETE /users/{id}
func (h *userHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete user service error", "error", err, "user_id", id)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deleted successfully", nil)
}
