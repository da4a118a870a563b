package dashboard

import (
	"context"
	"time"
)

// CalendarCoverage shows how much of the organization feeds time data.
type CalendarCoverage struct {
	ActiveUsers        int64 `json:"active_users"`
	ConnectedUsers     int64 `json:"connected_users"`
	Events             int64 `json:"events"`
	UnclassifiedEvents int64 `json:"unclassified_events"`
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetCalendarCoverage counts users, calendar connections and events of the period in a single query
	GetCalendarCoverage(ctx context.Context, organizationID string, start, end time.Time) (CalendarCoverage, error)
}
