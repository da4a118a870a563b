package calendar

import (
	"context"
	"io"
)

type CalendarService interface {
	// ConnectURL returns the consent URL and the nonce to pin in a cookie.
	ConnectURL(ctx context.Context) (url string, nonce string, err error)
	// HandleCallback stores the grant and returns the frontend URL to redirect to.
	HandleCallback(ctx context.Context, req CallbackRequest) string
	Status(ctx context.Context) (StatusResponse, error)
	Disconnect(ctx context.Context) error
	Sync(ctx context.Context, req SyncRequest) (SyncResponse, error)
	SyncUser(ctx context.Context, owner TokenOwner, req SyncRequest) (SyncResponse, error)
	SyncAll(ctx context.Context) (SyncAllResult, error)
	ListEvents(ctx context.Context, req ListEventsRequest) ([]EventResponse, error)
	AssignMission(ctx context.Context, id string, req AssignMissionRequest) (EventResponse, error)
	ImportICS(ctx context.Context, r io.Reader) (SyncResponse, error)
}
