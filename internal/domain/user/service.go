package user

import "context"

type UserService interface {
	List(ctx context.Context, filter ListUsersFilter) ([]UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	Me(ctx context.Context) (UserResponse, error)
	Invite(ctx context.Context, req InviteUserRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) error
	SetActive(ctx context.Context, id string, req SetActiveRequest) error
	Delete(ctx context.Context, id string) error
}
