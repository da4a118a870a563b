package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type keyResultRepositoryImpl struct {
	db *database.DB
}

func NewKeyResultRepository(db *database.DB) mission.KeyResultRepository {
	return &keyResultRepositoryImpl{db: db}
}

const keyResultColumns = `kr.id, kr.mission_id, kr.title, kr.description, kr.type, kr.weight,
	kr.target_value, kr.current_value, kr.unit, kr.is_completed, kr.status, kr.created_at, kr.updated_at`

func scanKeyResult(row pgx.Row) (mission.KeyResult, error) {
	var kr mission.KeyResult
	err := row.Scan(
		&kr.ID,
		&kr.MissionID,
		&kr.Title,
		&kr.Description,
		&kr.Type,
		&kr.Weight,
		&kr.TargetValue,
		&kr.CurrentValue,
		&kr.Unit,
		&kr.IsCompleted,
		&kr.Status,
		&kr.CreatedAt,
		&kr.UpdatedAt,
	)
	return kr, err
}

func collectKeyResults(rows pgx.Rows) ([]mission.KeyResult, error) {
	defer rows.Close()

	var krs []mission.KeyResult
	for rows.Next() {
		kr, err := scanKeyResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key result: %w", err)
		}
		krs = append(krs, kr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key results: %w", err)
	}
	return krs, nil
}

// Create implements mission.KeyResultRepository.
func (r *keyResultRepositoryImpl) Create(ctx context.Context, kr mission.KeyResult) (mission.KeyResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO key_results (mission_id, title, description, type, weight, target_value, current_value, unit, is_completed, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		kr.MissionID,
		kr.Title,
		kr.Description,
		kr.Type,
		kr.Weight,
		kr.TargetValue,
		kr.CurrentValue,
		kr.Unit,
		kr.IsCompleted,
		kr.Status,
	).Scan(&kr.ID, &kr.CreatedAt, &kr.UpdatedAt)
	if err != nil {
		return mission.KeyResult{}, err
	}
	return kr, nil
}

// GetByID implements mission.KeyResultRepository.
func (r *keyResultRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (mission.KeyResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + keyResultColumns + `
		FROM key_results kr
		JOIN missions m ON m.id = kr.mission_id
		WHERE kr.id = $1 AND m.organization_id = $2`
	return scanKeyResult(q.QueryRow(ctx, query, id, organizationID))
}

// ListByMissionIDs implements mission.KeyResultRepository.
func (r *keyResultRepositoryImpl) ListByMissionIDs(ctx context.Context, missionIDs []string) ([]mission.KeyResult, error) {
	if len(missionIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + keyResultColumns + `
		FROM key_results kr
		WHERE kr.mission_id = ANY($1)
		ORDER BY kr.created_at ASC`
	rows, err := q.Query(ctx, query, missionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list key results: %w", err)
	}
	return collectKeyResults(rows)
}

// ListByTitle implements mission.KeyResultRepository.
func (r *keyResultRepositoryImpl) ListByTitle(ctx context.Context, organizationID, title string) ([]mission.KeyResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + keyResultColumns + `
		FROM key_results kr
		JOIN missions m ON m.id = kr.mission_id
		WHERE m.organization_id = $1 AND kr.title = $2
		ORDER BY kr.created_at ASC`
	rows, err := q.Query(ctx, query, organizationID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to find key results by title: %w", err)
	}
	return collectKeyResults(rows)
}

// UpdateProgress implements mission.KeyResultRepository.
func (r *keyResultRepositoryImpl) UpdateProgress(ctx context.Context, kr mission.KeyResult) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE key_results
		SET current_value = $1, is_completed = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, kr.CurrentValue, kr.IsCompleted, kr.Status, kr.ID)
	if err != nil {
		return fmt.Errorf("failed to update key result progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete implements mission.KeyResultRepository.
func (r *keyResultRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM key_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete key result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
