package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type organizationRepositoryImpl struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepositoryImpl{db: db}
}

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var o organization.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.Settings, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Create(ctx context.Context, org organization.Organization) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	settings := org.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	query := `
		INSERT INTO organizations (name, slug, settings)
		VALUES ($1, $2, $3)
		RETURNING id, name, slug, settings, created_at, updated_at
	`
	return scanOrganization(q.QueryRow(ctx, query, org.Name, org.Slug, settings))
}

// GetByID implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, slug, settings, created_at, updated_at FROM organizations WHERE id = $1`
	return scanOrganization(q.QueryRow(ctx, query, id))
}

// Update implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Update(ctx context.Context, id string, req organization.UpdateOrganizationRequest) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Settings != nil {
		updates["settings"] = req.Settings
	}
	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE organizations SET %s WHERE id = $%d
		RETURNING id, name, slug, settings, created_at, updated_at`,
		strings.Join(setClauses, ", "), argIdx)

	return scanOrganization(q.QueryRow(ctx, query, args...))
}
