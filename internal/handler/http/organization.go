package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
)

type OrganizationHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	UpdateMy(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	organizationService organization.OrganizationService
}

func NewOrganizationHandler(organizationService organization.OrganizationService) OrganizationHandler {
	return &organizationHandlerImpl{organizationService: organizationService}
}

// GetMy handles GET /organizations/my
func (h *organizationHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.organizationService.GetMyOrganization(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateMy handles PUT /organizations/my
func (h *organizationHandlerImpl) UpdateMy(w http.ResponseWriter, r *http.Request) {
	var req organization.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateMyOrganization decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.organizationService.UpdateMyOrganization(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Organization updated successfully", result)
}
