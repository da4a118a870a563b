package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/group"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type GroupHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	AddMember(w http.ResponseWriter, r *http.Request)
	RemoveMember(w http.ResponseWriter, r *http.Request)
}

type groupHandlerImpl struct {
	groupService group.GroupService
}

func NewGroupHandler(groupService group.GroupService) GroupHandler {
	return &groupHandlerImpl{groupService: groupService}
}

// Create handles POST /groups
func (h *groupHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req group.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateGroup decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.groupService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Group created successfully", result)
}

// List handles GET /groups
func (h *groupHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.groupService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get handles GET /groups/{id}
func (h *groupHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Group ID is required", nil)
		return
	}

	result, err := h.groupService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update handles PUT /groups/{id}
func (h *groupHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Group ID is required", nil)
		return
	}

	var req group.UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.groupService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Group updated successfully", result)
}

// Delete handles DELETE /groups/{id}
func (h *groupHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Group ID is required", nil)
		return
	}

	if err := h.groupService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Group deleted successfully", nil)
}

// AddMember handles POST /groups/{id}/members
func (h *groupHandlerImpl) AddMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Group ID is required", nil)
		return
	}

	var req group.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.groupService.AddMember(r.Context(), id, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Member added successfully", nil)
}

// RemoveMember handles DELETE /groups/{id}/members/{userID}
func (h *groupHandlerImpl) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userID")
	if id == "" || userID == "" {
		response.BadRequest(w, "Group ID and user ID are required", nil)
		return
	}

	if err := h.groupService.RemoveMember(r.Context(), id, userID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Member removed successfully", nil)
}
