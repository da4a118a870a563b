package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calendarEventRepositoryImpl struct {
	db *database.DB
}

func NewCalendarEventRepository(db *database.DB) calendar.EventRepository {
	return &calendarEventRepositoryImpl{db: db}
}

const calendarEventSelect = `
	SELECT ce.id, ce.organization_id, ce.user_id, ce.mission_id, ce.external_id, ce.calendar_id, ce.source,
		ce.title, ce.description, ce.location, ce.start_time, ce.end_time, ce.is_all_day, ce.attendees,
		ce.created_at, ce.updated_at, m.title
	FROM calendar_events ce
	LEFT JOIN missions m ON m.id = ce.mission_id
`

func scanCalendarEvent(row pgx.Row) (calendar.Event, error) {
	var e calendar.Event
	var calendarID *string
	err := row.Scan(
		&e.ID,
		&e.OrganizationID,
		&e.UserID,
		&e.MissionID,
		&e.ExternalID,
		&calendarID,
		&e.Source,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartTime,
		&e.EndTime,
		&e.IsAllDay,
		&e.Attendees,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.MissionTitle,
	)
	if calendarID != nil {
		e.CalendarID = *calendarID
	}
	return e, err
}

// Upsert implements calendar.EventRepository.
func (r *calendarEventRepositoryImpl) Upsert(ctx context.Context, e calendar.Event) (calendar.Event, error) {
	q := GetQuerier(ctx, r.db)

	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	query := `
		INSERT INTO calendar_events (organization_id, user_id, external_id, calendar_id, source, title,
			description, location, start_time, end_time, is_all_day, attendees)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, source, external_id) DO UPDATE SET
			calendar_id = EXCLUDED.calendar_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			location = EXCLUDED.location,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_all_day = EXCLUDED.is_all_day,
			attendees = EXCLUDED.attendees,
			updated_at = NOW()
		RETURNING id, mission_id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		e.OrganizationID,
		e.UserID,
		e.ExternalID,
		e.CalendarID,
		e.Source,
		e.Title,
		e.Description,
		e.Location,
		e.StartTime,
		e.EndTime,
		e.IsAllDay,
		attendees,
	).Scan(&e.ID, &e.MissionID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("failed to upsert calendar event: %w", err)
	}
	e.Attendees = attendees
	return e, nil
}

// GetByID implements calendar.EventRepository.
func (r *calendarEventRepositoryImpl) GetByID(ctx context.Context, userID, id string) (calendar.Event, error) {
	q := GetQuerier(ctx, r.db)
	return scanCalendarEvent(q.QueryRow(ctx, calendarEventSelect+` WHERE ce.id = $1 AND ce.user_id = $2`, id, userID))
}

// ListByUser implements calendar.EventRepository. to is exclusive.
func (r *calendarEventRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]calendar.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := calendarEventSelect + `
		WHERE ce.user_id = $1 AND ce.start_time >= $2 AND ce.start_time < $3
		ORDER BY ce.start_time ASC
	`
	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	var events []calendar.Event
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}
	return events, nil
}

// AssignMission implements calendar.EventRepository.
func (r *calendarEventRepositoryImpl) AssignMission(ctx context.Context, userID, id string, missionID *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE calendar_events SET mission_id = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, missionID, id, userID)
	if err != nil {
		return fmt.Errorf("failed to assign mission to event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
