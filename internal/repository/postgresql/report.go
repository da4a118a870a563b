package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListEventRecords implements report.ReportRepository.
func (r *reportRepositoryImpl) ListEventRecords(ctx context.Context, organizationID string, start, end time.Time, userID *string) ([]report.EventRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			ce.start_time,
			ce.end_time,
			ce.mission_id,
			m.title,
			ce.user_id,
			COALESCE(u.name, '')
		FROM calendar_events ce
		LEFT JOIN missions m ON m.id = ce.mission_id
		LEFT JOIN users u ON u.id = ce.user_id
		WHERE ce.organization_id = $1
			AND ce.start_time >= $2
			AND ce.end_time <= $3
	`
	args := []interface{}{organizationID, start, end}
	if userID != nil {
		query += ` AND ce.user_id = $4`
		args = append(args, *userID)
	}
	query += ` ORDER BY ce.start_time ASC, ce.id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event records: %w", err)
	}
	defer rows.Close()

	var records []report.EventRecord
	for rows.Next() {
		var rec report.EventRecord
		if err := rows.Scan(
			&rec.StartTime,
			&rec.EndTime,
			&rec.MissionID,
			&rec.MissionName,
			&rec.UserID,
			&rec.UserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event records: %w", err)
	}

	return records, nil
}
