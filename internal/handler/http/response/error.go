package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/group"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/importer"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/mission-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountDisabled):
		Forbidden(w, "Account is deactivated")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrWrongPassword):
		BadRequest(w, "Current password is incorrect", nil)
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrMissingClaims):
		Unauthorized(w, "Authentication required")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCannotDeleteSelf),
		errors.Is(err, user.ErrCannotChangeOwnRole),
		errors.Is(err, user.ErrCannotDeactivateSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Organization domain errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, organization.ErrOrganizationSlugExists):
		Conflict(w, "Organization slug already exists")
	case errors.Is(err, organization.ErrExecutiveOnly):
		Forbidden(w, err.Error())

	// Group domain errors
	case errors.Is(err, group.ErrGroupNotFound):
		NotFound(w, "Group not found")
	case errors.Is(err, group.ErrGroupNameExists):
		Conflict(w, "Group name already exists")
	case errors.Is(err, group.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, group.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, group.ErrMemberNotFound):
		NotFound(w, "Member not found")
	case errors.Is(err, group.ErrMemberAlreadyInGroup):
		Conflict(w, "User is already a member of this group")
	case errors.Is(err, group.ErrManagerRoleRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, group.ErrNotGroupManager):
		Forbidden(w, err.Error())

	// Mission domain errors
	case errors.Is(err, mission.ErrMissionNotFound),
		errors.Is(err, calendar.ErrMissionNotFound):
		NotFound(w, "Mission not found")
	case errors.Is(err, mission.ErrParentMissionNotFound):
		NotFound(w, "Parent mission not found")
	case errors.Is(err, mission.ErrOwnerNotFound):
		NotFound(w, "Mission owner not found")
	case errors.Is(err, mission.ErrKeyResultNotFound):
		NotFound(w, "Key result not found")
	case errors.Is(err, mission.ErrMissionCannotBeOwnParent),
		errors.Is(err, mission.ErrMissionCycle),
		errors.Is(err, mission.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, mission.ErrNotMissionOwner),
		errors.Is(err, mission.ErrCompanyLevelRestricted):
		Forbidden(w, err.Error())

	// Calendar domain errors
	case errors.Is(err, calendar.ErrNotConnected):
		BadRequest(w, "Google Calendar is not connected", nil)
	case errors.Is(err, calendar.ErrEventNotFound):
		NotFound(w, "Calendar event not found")
	case errors.Is(err, calendar.ErrInvalidICS):
		BadRequest(w, "Invalid ICS file", nil)
	case errors.Is(err, calendar.ErrProviderUnavailable):
		BadGateway(w, "Google Calendar request failed")

	// Import errors
	case errors.Is(err, file.ErrInvalidFileType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, importer.ErrInvalidWorkbook),
		errors.Is(err, importer.ErrNoRows):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
