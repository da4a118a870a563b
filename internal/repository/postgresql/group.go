package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/group"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type groupRepositoryImpl struct {
	db *database.DB
}

func NewGroupRepository(db *database.DB) group.GroupRepository {
	return &groupRepositoryImpl{db: db}
}

const groupSelect = `
	SELECT g.id, g.organization_id, g.manager_id, g.name, g.description, g.created_at, g.updated_at,
		COALESCE(u.name, ''),
		(SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id)
	FROM groups g
	LEFT JOIN users u ON u.id = g.manager_id
`

func scanGroup(row pgx.Row) (group.Group, error) {
	var g group.Group
	err := row.Scan(
		&g.ID,
		&g.OrganizationID,
		&g.ManagerID,
		&g.Name,
		&g.Description,
		&g.CreatedAt,
		&g.UpdatedAt,
		&g.ManagerName,
		&g.MemberCount,
	)
	return g, err
}

// Create implements group.GroupRepository.
func (r *groupRepositoryImpl) Create(ctx context.Context, g group.Group) (group.Group, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO groups (organization_id, manager_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	if err := q.QueryRow(ctx, query, g.OrganizationID, g.ManagerID, g.Name, g.Description).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return group.Group{}, fmt.Errorf("failed to create group: %w", err)
	}
	return g, nil
}

// GetByID implements group.GroupRepository.
func (r *groupRepositoryImpl) GetByID(ctx context.Context, organizationID, id string) (group.Group, error) {
	q := GetQuerier(ctx, r.db)
	return scanGroup(q.QueryRow(ctx, groupSelect+` WHERE g.id = $1 AND g.organization_id = $2`, id, organizationID))
}

// List implements group.GroupRepository.
func (r *groupRepositoryImpl) List(ctx context.Context, organizationID string) ([]group.Group, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, groupSelect+` WHERE g.organization_id = $1 ORDER BY g.name ASC`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []group.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Update implements group.GroupRepository.
func (r *groupRepositoryImpl) Update(ctx context.Context, g group.Group) (group.Group, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE groups
		SET name = $1, description = $2, manager_id = $3, updated_at = NOW()
		WHERE id = $4 AND organization_id = $5
		RETURNING updated_at
	`
	if err := q.QueryRow(ctx, query, g.Name, g.Description, g.ManagerID, g.ID, g.OrganizationID).Scan(&g.UpdatedAt); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

// Delete implements group.GroupRepository.
func (r *groupRepositoryImpl) Delete(ctx context.Context, organizationID, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM groups WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListMembers implements group.GroupRepository.
func (r *groupRepositoryImpl) ListMembers(ctx context.Context, groupID string) ([]group.Member, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT u.id, u.name, u.email, u.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at ASC
	`
	rows, err := q.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []group.Member
	for rows.Next() {
		var m group.Member
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember implements group.GroupRepository.
func (r *groupRepositoryImpl) AddMember(ctx context.Context, groupID, userID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, groupID, userID); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveMember implements group.GroupRepository.
func (r *groupRepositoryImpl) RemoveMember(ctx context.Context, groupID, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
