package mission

import "time"

type Level string

const (
	LevelCompany Level = "company"
	LevelManager Level = "manager"
	LevelMember  Level = "member"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusOnHold    Status = "on_hold"
)

var (
	ValidLevels   = []string{string(LevelCompany), string(LevelManager), string(LevelMember)}
	ValidStatuses = []string{string(StatusActive), string(StatusCompleted), string(StatusArchived), string(StatusOnHold)}
)

// DefaultDuration is applied when a mission is created without an end date.
const DefaultDuration = 90 * 24 * time.Hour

type Mission struct {
	ID             string
	OrganizationID string
	Title          string
	Description    *string
	Level          Level
	Status         Status
	OwnerID        string
	ParentID       *string
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	OwnerName  string
	KeyResults []KeyResult
}

type KeyResultType string

const (
	KeyResultQuantitative KeyResultType = "quantitative"
	KeyResultQualitative  KeyResultType = "qualitative"
)

type KeyResultStatus string

const (
	KeyResultNotStarted KeyResultStatus = "not_started"
	KeyResultInProgress KeyResultStatus = "in_progress"
	KeyResultCompleted  KeyResultStatus = "completed"
	KeyResultAtRisk     KeyResultStatus = "at_risk"
)

var (
	ValidKeyResultTypes    = []string{string(KeyResultQuantitative), string(KeyResultQualitative)}
	ValidKeyResultStatuses = []string{string(KeyResultNotStarted), string(KeyResultInProgress), string(KeyResultCompleted), string(KeyResultAtRisk)}
)

const (
	MinWeight = 1
	MaxWeight = 10
)

type KeyResult struct {
	ID           string
	MissionID    string
	Title        string
	Description  *string
	Type         KeyResultType
	Weight       int
	TargetValue  *float64
	CurrentValue *float64
	Unit         *string
	IsCompleted  bool
	Status       KeyResultStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StatusCounts is the per-status mission tally shown above mission lists.
type StatusCounts struct {
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	OnHold    int64 `json:"on_hold"`
	Archived  int64 `json:"archived"`
}
