package group

import (
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ManagerID   string  `json:"manager_id"`
}

func (r *CreateGroupRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id is required",
		})
	} else if !validator.IsValidUUID(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
}

func (r *UpdateGroupRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Description == nil && r.ManagerID == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "request",
			Message: "at least one field must be provided",
		})
	}
	if r.Name != nil && (validator.IsEmpty(*r.Name) || len(*r.Name) > 100) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be between 1 and 100 characters",
		})
	}
	if r.ManagerID != nil && !validator.IsValidUUID(*r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

func (r *AddMemberRequest) Validate() error {
	if !validator.IsValidUUID(r.UserID) {
		return validator.ValidationErrors{{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		}}
	}
	return nil
}

type GroupResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ManagerID   string  `json:"manager_id"`
	ManagerName string  `json:"manager_name,omitempty"`
	MemberCount int     `json:"member_count"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func ToResponse(g Group) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		ManagerID:   g.ManagerID,
		ManagerName: g.ManagerName,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   g.UpdatedAt.Format(time.RFC3339),
	}
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type GroupDetailResponse struct {
	GroupResponse
	Members []MemberResponse `json:"members"`
}

func ToDetailResponse(g Group, members []Member) GroupDetailResponse {
	resp := GroupDetailResponse{
		GroupResponse: ToResponse(g),
		Members:       make([]MemberResponse, 0, len(members)),
	}
	for _, m := range members {
		resp.Members = append(resp.Members, MemberResponse{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			Role:     m.Role,
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		})
	}
	resp.MemberCount = len(members)
	return resp
}
