package group

import "context"

type GroupRepository interface {
	Create(ctx context.Context, g Group) (Group, error)
	GetByID(ctx context.Context, organizationID, id string) (Group, error)
	List(ctx context.Context, organizationID string) ([]Group, error)
	Update(ctx context.Context, g Group) (Group, error)
	Delete(ctx context.Context, organizationID, id string) error

	ListMembers(ctx context.Context, groupID string) ([]Member, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
}
