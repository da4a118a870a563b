package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MissionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	CreateKeyResult(w http.ResponseWriter, r *http.Request)
	UpdateKeyResultProgress(w http.ResponseWriter, r *http.Request)
	DeleteKeyResult(w http.ResponseWriter, r *http.Request)
}

type missionHandlerImpl struct {
	missionService mission.MissionService
}

func NewMissionHandler(missionService mission.MissionService) MissionHandler {
	return &missionHandlerImpl{missionService: missionService}
}

// Create handles POST /missions
func (h *missionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req mission.CreateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateMission decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.missionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Mission created", "mission_id", result.ID, "level", result.Level)
	response.Created(w, "Mission created successfully", result)
}

// List handles GET /missions?level=&status=&owner_id=
func (h *missionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter mission.ListMissionsFilter
	if level := r.URL.Query().Get("level"); level != "" {
		filter.Level = &level
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		filter.OwnerID = &ownerID
	}

	result, err := h.missionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result.Missions))})
}

// Get handles GET /missions/{id}
func (h *missionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Mission ID is required", nil)
		return
	}

	result, err := h.missionService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update handles PUT /missions/{id}
func (h *missionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Mission ID is required", nil)
		return
	}

	var req mission.UpdateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.missionService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Mission updated successfully", result)
}

// Delete handles DELETE /missions/{id}
func (h *missionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Mission ID is required", nil)
		return
	}

	if err := h.missionService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete mission service error", "error", err, "mission_id", id)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Mission deleted successfully", nil)
}

// CreateKeyResult handles POST /missions/{id}/key-results
func (h *missionHandlerImpl) CreateKeyResult(w http.ResponseWriter, r *http.Request) {
	missionID := chi.URLParam(r, "id")
	if missionID == "" {
		response.BadRequest(w, "Mission ID is required", nil)
		return
	}

	var req mission.CreateKeyResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.missionService.CreateKeyResult(r.Context(), missionID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Key result created successfully", result)
}

// UpdateKeyResultProgress handles PUT /key-results/{id}/progress
func (h *missionHandlerImpl) UpdateKeyResultProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Key result ID is required", nil)
		return
	}

	var req mission.UpdateKeyResultProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.missionService.UpdateKeyResultProgress(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Progress updated successfully", result)
}

// DeleteKeyResult handles DELETE /key-results/{id}
func (h *missionHandlerImpl) DeleteKeyResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Key result ID is required", nil)
		return
	}

	if err := h.missionService.DeleteKeyResult(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Key result deleted successfully", nil)
}
