package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetCalendarCoverage returns active users, connected calendars and period events in single query
func (r *dashboardRepositoryImpl) GetCalendarCoverage(ctx context.Context, organizationID string, start, end time.Time) (dashboard.CalendarCoverage, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE organization_id = $1 AND is_active) as active_users,
			(SELECT COUNT(*) FROM google_tokens gt
				JOIN users u ON u.id = gt.user_id
				WHERE u.organization_id = $1 AND u.is_active) as connected_users,
			COUNT(ce.id) as events,
			COALESCE(SUM(CASE WHEN ce.mission_id IS NULL THEN 1 ELSE 0 END), 0) as unclassified_events
		FROM calendar_events ce
		WHERE ce.organization_id = $1 AND ce.start_time >= $2 AND ce.end_time <= $3
	`

	var stats dashboard.CalendarCoverage
	err := q.QueryRow(ctx, query, organizationID, start, end).Scan(
		&stats.ActiveUsers, &stats.ConnectedUsers, &stats.Events, &stats.UnclassifiedEvents,
	)
	if err != nil {
		return dashboard.CalendarCoverage{}, fmt.Errorf("failed to get calendar coverage: %w", err)
	}
	return stats, nil
}
