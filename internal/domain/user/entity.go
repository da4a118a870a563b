package user

import "time"

type Role string

const (
	RoleExecutive Role = "executive" // Organization-wide visibility and settings
	RoleManager   Role = "manager"   // Manages groups and their missions
	RoleMember    Role = "member"
)

var ValidRoles = []string{string(RoleExecutive), string(RoleManager), string(RoleMember)}

type User struct {
	ID             string
	OrganizationID string
	Email          string
	Name           string
	AvatarURL      *string
	Role           Role
	IsActive       bool
	PasswordHash   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsExecutive checks if user is an organization executive
func (u *User) IsExecutive() bool {
	return u.Role == RoleExecutive
}

// IsManager checks if user is manager or executive
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleExecutive
}
