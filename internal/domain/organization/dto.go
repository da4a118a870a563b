package organization

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

type OrganizationResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Settings  map[string]any `json:"settings"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

func ToResponse(o Organization) OrganizationResponse {
	settings := o.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Settings:  settings,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}

// UpdateOrganizationRequest replaces settings wholesale when Settings is non-nil.
type UpdateOrganizationRequest struct {
	Name     *string        `json:"name,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

func (r *UpdateOrganizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Settings == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "request",
			Message: "at least one of name or settings must be provided",
		})
	}
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
		if trimmed == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name cannot be empty",
			})
		} else if len(trimmed) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 255 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BootstrapRequest seeds a new organization and its first executive.
type BootstrapRequest struct {
	Name          string
	Slug          string
	ExecutiveName string
	Email         string
	Password      string
}

func (r *BootstrapRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidSlug(r.Slug) {
		errs = append(errs, validator.ValidationError{Field: "slug", Message: "slug may only contain lowercase letters, numbers and hyphens"})
	}
	if validator.IsEmpty(r.ExecutiveName) {
		errs = append(errs, validator.ValidationError{Field: "executive_name", Message: "executive_name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
