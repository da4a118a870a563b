package calendar

import (
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

type CallbackRequest struct {
	Code        string
	State       string
	Error       string
	StateCookie string
}

type StatusResponse struct {
	Connected   bool    `json:"connected"`
	GoogleEmail *string `json:"google_email,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
}

// SyncRequest selects the day to pull. Empty Date means today.
type SyncRequest struct {
	Date string `json:"date,omitempty"`
}

func (r *SyncRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return nil
}

// Day returns the [start, end) window of the requested day in loc.
func (r *SyncRequest) Day(now time.Time, loc *time.Location) (time.Time, time.Time) {
	day := now.In(loc)
	if d, ok := validator.IsValidDate(r.Date); ok {
		day = d
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

type SyncResponse struct {
	Synced int             `json:"synced"`
	Events []EventResponse `json:"events"`
}

type SyncAllResult struct {
	Users  int `json:"users"`
	Failed int `json:"failed"`
	Events int `json:"events"`
}

type ListEventsRequest struct {
	From string
	To   string
}

func (r *ListEventsRequest) Validate() error {
	var errs validator.ValidationErrors
	from, fromOK := validator.IsValidDate(r.From)
	to, toOK := validator.IsValidDate(r.To)
	if r.From != "" && !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}
	if r.To != "" && !toOK {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Window defaults to the current week when bounds are missing. to is inclusive.
func (r *ListEventsRequest) Window(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	to := from.AddDate(0, 0, 7)
	if d, ok := validator.IsValidDate(r.From); ok {
		from = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	}
	if d, ok := validator.IsValidDate(r.To); ok {
		to = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	}
	return from, to
}

type AssignMissionRequest struct {
	MissionID *string `json:"mission_id"`
}

func (r *AssignMissionRequest) Validate() error {
	if r.MissionID != nil && !validator.IsValidUUID(*r.MissionID) {
		return validator.ValidationErrors{{Field: "mission_id", Message: "mission_id must be a valid UUID or null"}}
	}
	return nil
}

type EventResponse struct {
	ID           string   `json:"id"`
	ExternalID   string   `json:"external_id"`
	Source       string   `json:"source"`
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Location     *string  `json:"location,omitempty"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	IsAllDay     bool     `json:"is_all_day"`
	Attendees    []string `json:"attendees"`
	MissionID    *string  `json:"mission_id"`
	MissionTitle *string  `json:"mission_title,omitempty"`
	Minutes      float64  `json:"minutes"`
}

func ToEventResponse(e Event) EventResponse {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	minutes := 0.0
	if d := e.EndTime.Sub(e.StartTime); d > 0 {
		minutes = d.Minutes()
	}
	return EventResponse{
		ID:           e.ID,
		ExternalID:   e.ExternalID,
		Source:       string(e.Source),
		Title:        e.Title,
		Description:  e.Description,
		Location:     e.Location,
		StartTime:    e.StartTime.Format(time.RFC3339),
		EndTime:      e.EndTime.Format(time.RFC3339),
		IsAllDay:     e.IsAllDay,
		Attendees:    attendees,
		MissionID:    e.MissionID,
		MissionTitle: e.MissionTitle,
		Minutes:      minutes,
	}
}
