package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, organizationID, id string) (User, error)
	// FindByID is not organization scoped; used where only a token subject is known.
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, organizationID string, filter ListUsersFilter) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	UpdateRole(ctx context.Context, organizationID, id string, role Role) error
	SetActive(ctx context.Context, organizationID, id string, active bool) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, organizationID, id string) error
}
