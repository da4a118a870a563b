package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type missionRepositoryImpl struct {
	db *database.DB
}

func NewMissionRepository(db *database.DB) mission.MissionRepository {
	return &missionRepositoryImpl{db: db}
}

const missionSelect = `
	SELECT m.id, m.organization_id, m.title, m.description, m.level, m.status, m.owner_id, m.parent_id,
		m.start_date, m.end_date, m.created_at, m.updated_at, COALESCE(u.name, '')
	FROM missions m
	LEFT JOIN users u ON u.id = m.owner_id
`

func scanMission(row pgx.Row) (mission.Mission, error) {
	var m mission.Mission
	err := row.Scan(
		&m.ID,
		&m.OrganizationID,
		&m.Title,
		&m.Description,
		&m.Level,
		&m.Status,
		&m.OwnerID,
		&m.ParentID,
		&m.StartDate,
		&m.EndDate,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.OwnerName,
	)
	return m, err
}

func collectMissions(rows pgx.Rows) ([]mission.Mission, error) {
	defer rows.Close()

	var missions []mission.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate missions: %w", err)
	}
	return missions, nil
}

// Create implements mission.MissionRepository.
func (r *missionRepositoryImpl) Create(ctx context.Context, m mission.Mission) (mission.Mission, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO missions (organization_id, title, description, level, status, owner_id, parent_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		m.OrganizationID,
		m.Title,
		m.Description,
		m.Level,
		m.Status,
		m.OwnerID,
		m.ParentID,
		m.StartDate,
		m.EndDate,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mission.Mission{}, err
	}
	return m, nil
}

// GetByID implements mission.MissionRepository.
func (r *missionRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (mission.Mission, error) {
	q := GetQuerier(ctx, r.db)
	return scanMission(q.QueryRow(ctx, missionSelect+` WHERE m.id = $1 AND m.organization_id = $2`, id, organizationID))
}

// List implements mission.MissionRepository.
func (r *missionRepositoryImpl) List(ctx context.Context, organizationID string, filter mission.ListMissionsFilter) ([]mission.Mission, error) {
	q := GetQuerier(ctx, r.db)

	where := []string{"m.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.Level != nil {
		where = append(where, fmt.Sprintf("m.level = $%d", argIdx))
		args = append(args, *filter.Level)
		argIdx++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("m.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.OwnerID != nil {
		where = append(where, fmt.Sprintf("m.owner_id = $%d", argIdx))
		args = append(args, *filter.OwnerID)
		argIdx++
	}

	query := missionSelect + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY m.created_at DESC`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return collectMissions(rows)
}

// ListChildren implements mission.MissionRepository.
func (r *missionRepositoryImpl) ListChildren(ctx context.Context, organizationID, parentID string) ([]mission.Mission, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, missionSelect+` WHERE m.organization_id = $1 AND m.parent_id = $2 ORDER BY m.created_at ASC`, organizationID, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child missions: %w", err)
	}
	return collectMissions(rows)
}

// Update implements mission.MissionRepository.
func (r *missionRepositoryImpl) Update(ctx context.Context, m mission.Mission) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE missions
		SET title = $1, description = $2, level = $3, status = $4, owner_id = $5, parent_id = $6,
			start_date = $7, end_date = $8, updated_at = NOW()
		WHERE id = $9 AND organization_id = $10
	`
	tag, err := q.Exec(ctx, query,
		m.Title,
		m.Description,
		m.Level,
		m.Status,
		m.OwnerID,
		m.ParentID,
		m.StartDate,
		m.EndDate,
		m.ID,
		m.OrganizationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete implements mission.MissionRepository.
func (r *missionRepositoryImpl) Delete(ctx context.Context, organizationID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM missions WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete mission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountByStatus implements mission.MissionRepository.
func (r *missionRepositoryImpl) CountByStatus(ctx context.Context, organizationID string) (mission.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'on_hold'),
			COUNT(*) FILTER (WHERE status = 'archived')
		FROM missions
		WHERE organization_id = $1
	`
	var c mission.StatusCounts
	if err := q.QueryRow(ctx, query, organizationID).Scan(&c.Active, &c.Completed, &c.OnHold, &c.Archived); err != nil {
		return mission.StatusCounts{}, fmt.Errorf("failed to count missions: %w", err)
	}
	return c, nil
}
