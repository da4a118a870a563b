package mission

import (
	"context"
)

type MissionRepository interface {
	Create(ctx context.Context, m Mission) (Mission, error)
	GetByID(ctx context.Context, organizationID, id string) (Mission, error)
	List(ctx context.Context, organizationID string, filter ListMissionsFilter) ([]Mission, error)
	ListChildren(ctx context.Context, organizationID, parentID string) ([]Mission, error)
	Update(ctx context.Context, m Mission) error
	Delete(ctx context.Context, organizationID, id string) error
	CountByStatus(ctx context.Context, organizationID string) (StatusCounts, error)
}

type KeyResultRepository interface {
	Create(ctx context.Context, kr KeyResult) (KeyResult, error)
	// GetByID resolves a key result only if its mission belongs to organizationID.
	GetByID(ctx context.Context, organizationID, id string) (KeyResult, error)
	ListByMissionIDs(ctx context.Context, missionIDs []string) ([]KeyResult, error)
	ListByTitle(ctx context.Context, organizationID, title string) ([]KeyResult, error)
	UpdateProgress(ctx context.Context, kr KeyResult) error
	Delete(ctx context.Context, id string) error
}
