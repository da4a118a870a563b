package calendar

import "time"

type Source string

const (
	SourceGoogle Source = "google"
	SourceICS    Source = "ics"
)

// UntitledEvent replaces empty event summaries.
const UntitledEvent = "Untitled"

type Event struct {
	ID             string
	OrganizationID string
	UserID         string
	MissionID      *string
	ExternalID     string
	CalendarID     string
	Source         Source
	Title          string
	Description    *string
	Location       *string
	StartTime      time.Time
	EndTime        time.Time
	IsAllDay       bool
	Attendees      []string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	MissionTitle *string
}

// GoogleToken is the stored OAuth2 grant of one user.
type GoogleToken struct {
	UserID       string
	AccessToken  string
	RefreshToken *string
	TokenType    string
	Expiry       *time.Time
	Scope        *string
	GoogleEmail  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenOwner is a user holding a calendar connection, used by background sync.
type TokenOwner struct {
	UserID         string
	OrganizationID string
}
