package mission

import (
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type CreateMissionRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Level       string  `json:"level"`
	Status      string  `json:"status,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
}

func (r *CreateMissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 255 characters",
		})
	}

	if !validator.IsInSlice(r.Level, ValidLevels) {
		errs = append(errs, validator.ValidationError{
			Field:   "level",
			Message: "level must be one of company, manager, member",
		})
	}

	if r.Status != "" && !validator.IsInSlice(r.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of active, completed, archived, on_hold",
		})
	}

	if r.OwnerID != nil && !validator.IsValidUUID(*r.OwnerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_id",
			Message: "owner_id must be a valid UUID",
		})
	}

	if r.ParentID != nil && !validator.IsValidUUID(*r.ParentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "parent_id",
			Message: "parent_id must be a valid UUID",
		})
	}

	errs = append(errs, validateDateRange(r.StartDate, r.EndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates resolves the start and end dates, defaulting to today and start + DefaultDuration.
func (r *CreateMissionRequest) Dates(now time.Time) (time.Time, time.Time) {
	start := truncateDay(now)
	if d, ok := validator.IsValidDate(r.StartDate); ok {
		start = d
	}
	end := start.Add(DefaultDuration)
	if d, ok := validator.IsValidDate(r.EndDate); ok {
		end = d
	}
	return start, end
}

type UpdateMissionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Level       *string `json:"level,omitempty"`
	Status      *string `json:"status,omitempty"`
	OwnerID     *string `json:"owner_id,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
	ClearParent bool    `json:"clear_parent,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

func (r *UpdateMissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil {
		if validator.IsEmpty(*r.Title) {
			errs = append(errs, validator.ValidationError{
				Field:   "title",
				Message: "title cannot be empty",
			})
		} else if len(*r.Title) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "title",
				Message: "title must not exceed 255 characters",
			})
		}
	}

	if r.Level != nil && !validator.IsInSlice(*r.Level, ValidLevels) {
		errs = append(errs, validator.ValidationError{
			Field:   "level",
			Message: "level must be one of company, manager, member",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of active, completed, archived, on_hold",
		})
	}

	if r.OwnerID != nil && !validator.IsValidUUID(*r.OwnerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "owner_id",
			Message: "owner_id must be a valid UUID",
		})
	}

	if r.ParentID != nil && !validator.IsValidUUID(*r.ParentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "parent_id",
			Message: "parent_id must be a valid UUID",
		})
	}

	var start, end string
	if r.StartDate != nil {
		start = *r.StartDate
		if start == "" {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date cannot be empty"})
		}
	}
	if r.EndDate != nil {
		end = *r.EndDate
		if end == "" {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date cannot be empty"})
		}
	}
	errs = append(errs, validateDateRange(start, end)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateMissionRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Level == nil && r.Status == nil &&
		r.OwnerID == nil && r.ParentID == nil && !r.ClearParent && r.StartDate == nil && r.EndDate == nil
}

type ListMissionsFilter struct {
	Level   *string
	Status  *string
	OwnerID *string
}

func (f *ListMissionsFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Level != nil && !validator.IsInSlice(*f.Level, ValidLevels) {
		errs = append(errs, validator.ValidationError{Field: "level", Message: "invalid level"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "invalid status"})
	}
	if f.OwnerID != nil && !validator.IsValidUUID(*f.OwnerID) {
		errs = append(errs, validator.ValidationError{Field: "owner_id", Message: "owner_id must be a valid UUID"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateKeyResultRequest struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Type         string   `json:"type"`
	Weight       *int     `json:"weight,omitempty"`
	TargetValue  *float64 `json:"target_value,omitempty"`
	CurrentValue *float64 `json:"current_value,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
}

func (r *CreateKeyResultRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 255 characters",
		})
	}

	if !validator.IsInSlice(r.Type, ValidKeyResultTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be quantitative or qualitative",
		})
	}

	if r.Weight != nil && (*r.Weight < MinWeight || *r.Weight > MaxWeight) {
		errs = append(errs, validator.ValidationError{
			Field:   "weight",
			Message: "weight must be between 1 and 10",
		})
	}

	if KeyResultType(r.Type) == KeyResultQuantitative {
		if r.TargetValue == nil || *r.TargetValue <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "target_value",
				Message: "target_value must be greater than 0",
			})
		}
		if r.Unit == nil || validator.IsEmpty(*r.Unit) {
			errs = append(errs, validator.ValidationError{
				Field:   "unit",
				Message: "unit is required for quantitative key results",
			})
		}
	}

	if r.CurrentValue != nil && *r.CurrentValue < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "current_value",
			Message: "current_value must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToKeyResult applies defaults: weight 1, current value 0 for quantitative results.
func (r *CreateKeyResultRequest) ToKeyResult(missionID string) KeyResult {
	kr := KeyResult{
		MissionID:   missionID,
		Title:       r.Title,
		Description: r.Description,
		Type:        KeyResultType(r.Type),
		Weight:      MinWeight,
		Status:      KeyResultNotStarted,
	}
	if r.Weight != nil {
		kr.Weight = *r.Weight
	}
	if kr.Type == KeyResultQuantitative {
		current := 0.0
		if r.CurrentValue != nil {
			current = *r.CurrentValue
		}
		kr.TargetValue = r.TargetValue
		kr.CurrentValue = &current
		kr.Unit = r.Unit
	}
	kr.Status = DeriveKeyResultStatus(kr)
	return kr
}

type UpdateKeyResultProgressRequest struct {
	CurrentValue *float64 `json:"current_value,omitempty"`
	IsCompleted  *bool    `json:"is_completed,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

func (r *UpdateKeyResultProgressRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CurrentValue == nil && r.IsCompleted == nil && r.Status == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "current_value",
			Message: "at least one of current_value, is_completed or status is required",
		})
	}
	if r.CurrentValue != nil && *r.CurrentValue < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "current_value",
			Message: "current_value must not be negative",
		})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, ValidKeyResultStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of not_started, in_progress, completed, at_risk",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the request into kr. Without an explicit status the status follows progress.
func (r *UpdateKeyResultProgressRequest) Apply(kr KeyResult) KeyResult {
	if r.CurrentValue != nil {
		v := *r.CurrentValue
		kr.CurrentValue = &v
	}
	if r.IsCompleted != nil {
		kr.IsCompleted = *r.IsCompleted
	}
	if r.Status != nil {
		kr.Status = KeyResultStatus(*r.Status)
	} else {
		kr.Status = DeriveKeyResultStatus(kr)
	}
	return kr
}

type KeyResultResponse struct {
	ID                 string   `json:"id"`
	MissionID          string   `json:"mission_id"`
	Title              string   `json:"title"`
	Description        *string  `json:"description,omitempty"`
	Type               string   `json:"type"`
	Weight             int      `json:"weight"`
	TargetValue        *float64 `json:"target_value,omitempty"`
	CurrentValue       *float64 `json:"current_value,omitempty"`
	Unit               *string  `json:"unit,omitempty"`
	IsCompleted        bool     `json:"is_completed"`
	Status             string   `json:"status"`
	ProgressPercentage int      `json:"progress_percentage"`
	UpdatedAt          string   `json:"updated_at"`
}

func ToKeyResultResponse(kr KeyResult) KeyResultResponse {
	return KeyResultResponse{
		ID:                 kr.ID,
		MissionID:          kr.MissionID,
		Title:              kr.Title,
		Description:        kr.Description,
		Type:               string(kr.Type),
		Weight:             kr.Weight,
		TargetValue:        kr.TargetValue,
		CurrentValue:       kr.CurrentValue,
		Unit:               kr.Unit,
		IsCompleted:        kr.IsCompleted,
		Status:             string(kr.Status),
		ProgressPercentage: KeyResultPercentage(kr),
		UpdatedAt:          kr.UpdatedAt.Format(time.RFC3339),
	}
}

type MissionResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	Level       string              `json:"level"`
	Status      string              `json:"status"`
	OwnerID     string              `json:"owner_id"`
	OwnerName   string              `json:"owner_name,omitempty"`
	ParentID    *string             `json:"parent_id,omitempty"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Progress    MissionProgress     `json:"progress"`
	KeyResults  []KeyResultResponse `json:"key_results"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

func ToMissionResponse(m Mission) MissionResponse {
	krs := make([]KeyResultResponse, 0, len(m.KeyResults))
	for _, kr := range m.KeyResults {
		krs = append(krs, ToKeyResultResponse(kr))
	}
	return MissionResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Level:       string(m.Level),
		Status:      string(m.Status),
		OwnerID:     m.OwnerID,
		OwnerName:   m.OwnerName,
		ParentID:    m.ParentID,
		StartDate:   m.StartDate.Format(dateLayout),
		EndDate:     m.EndDate.Format(dateLayout),
		Progress:    CalculateProgress(m.ID, m.KeyResults),
		KeyResults:  krs,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}

// MissionSummary is the short form used for parent and child links.
type MissionSummary struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Level              string `json:"level"`
	Status             string `json:"status"`
	ProgressPercentage int    `json:"progress_percentage"`
}

func ToMissionSummary(m Mission) MissionSummary {
	return MissionSummary{
		ID:                 m.ID,
		Title:              m.Title,
		Level:              string(m.Level),
		Status:             string(m.Status),
		ProgressPercentage: CalculateProgress(m.ID, m.KeyResults).ProgressPercentage,
	}
}

type MissionDetailResponse struct {
	MissionResponse
	Parent   *MissionSummary  `json:"parent,omitempty"`
	Children []MissionSummary `json:"children"`
}

type ListMissionsResponse struct {
	Missions     []MissionResponse `json:"missions"`
	StatusCounts StatusCounts      `json:"status_counts"`
}

func validateDateRange(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	startDate, startOK := validator.IsValidDate(start)
	if start != "" && !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	endDate, endOK := validator.IsValidDate(end)
	if end != "" && !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}
	return errs
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
