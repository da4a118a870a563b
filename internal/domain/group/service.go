package group

import "context"

type GroupService interface {
	Create(ctx context.Context, req CreateGroupRequest) (GroupResponse, error)
	List(ctx context.Context) ([]GroupResponse, error)
	Get(ctx context.Context, id string) (GroupDetailResponse, error)
	Update(ctx context.Context, id string, req UpdateGroupRequest) (GroupResponse, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id string, req AddMemberRequest) error
	RemoveMember(ctx context.Context, id, userID string) error
}
