package user

import (
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Role           string  `json:"role"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

type ListUsersFilter struct {
	Role     *string
	IsActive *bool
}

// InviteUserRequest creates an organization member and emails them a temporary password.
type InviteUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (r *InviteUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Role) {
		r.Role = string(RoleMember)
	} else if !validator.IsInSlice(r.Role, ValidRoles) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of executive, manager, member",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	if !validator.IsInSlice(r.Role, ValidRoles) {
		return validator.ValidationErrors{{
			Field:   "role",
			Message: "role must be one of executive, manager, member",
		}}
	}
	return nil
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func (r *SetActiveRequest) Validate() error {
	if r.IsActive == nil {
		return validator.ValidationErrors{{
			Field:   "is_active",
			Message: "is_active is required",
		}}
	}
	return nil
}
