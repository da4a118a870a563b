package calendar

import (
	"context"
	"time"
)

type EventRepository interface {
	// Upsert inserts or updates by (user_id, source, external_id). MissionID is left untouched on update.
	Upsert(ctx context.Context, event Event) (Event, error)
	GetByID(ctx context.Context, userID, id string) (Event, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]Event, error)
	AssignMission(ctx context.Context, userID, id string, missionID *string) error
}

type TokenRepository interface {
	Upsert(ctx context.Context, token GoogleToken) error
	GetByUserID(ctx context.Context, userID string) (GoogleToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
	ListOwners(ctx context.Context) ([]TokenOwner, error)
}
