package group

import "time"

type Group struct {
	ID             string
	OrganizationID string
	ManagerID      string
	Name           string
	Description    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Populated by list/get joins
	ManagerName string
	MemberCount int
}

type Member struct {
	UserID   string
	Name     string
	Email    string
	Role     string
	JoinedAt time.Time
}
