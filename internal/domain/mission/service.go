package mission

import "context"

type MissionService interface {
	Create(ctx context.Context, req CreateMissionRequest) (MissionResponse, error)
	List(ctx context.Context, filter ListMissionsFilter) (ListMissionsResponse, error)
	Get(ctx context.Context, id string) (MissionDetailResponse, error)
	Update(ctx context.Context, id string, req UpdateMissionRequest) (MissionResponse, error)
	Delete(ctx context.Context, id string) error

	CreateKeyResult(ctx context.Context, missionID string, req CreateKeyResultRequest) (KeyResultResponse, error)
	UpdateKeyResultProgress(ctx context.Context, id string, req UpdateKeyResultProgressRequest) (KeyResultResponse, error)
	DeleteKeyResult(ctx context.Context, id string) error
}
