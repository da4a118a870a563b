package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type googleTokenRepositoryImpl struct {
	db *database.DB
}

func NewGoogleTokenRepository(db *database.DB) calendar.TokenRepository {
	return &googleTokenRepositoryImpl{db: db}
}

// Upsert implements calendar.TokenRepository. A nil refresh token keeps the stored one.
func (r *googleTokenRepositoryImpl) Upsert(ctx context.Context, t calendar.GoogleToken) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO google_tokens (user_id, access_token, refresh_token, token_type, expiry, scope, google_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(EXCLUDED.refresh_token, google_tokens.refresh_token),
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			scope = COALESCE(EXCLUDED.scope, google_tokens.scope),
			google_email = COALESCE(EXCLUDED.google_email, google_tokens.google_email),
			updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query,
		t.UserID,
		t.AccessToken,
		t.RefreshToken,
		t.TokenType,
		t.Expiry,
		t.Scope,
		t.GoogleEmail,
	); err != nil {
		return fmt.Errorf("failed to upsert google token: %w", err)
	}
	return nil
}

// GetByUserID implements calendar.TokenRepository.
func (r *googleTokenRepositoryImpl) GetByUserID(ctx context.Context, userID string) (calendar.GoogleToken, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, access_token, refresh_token, token_type, expiry, scope, google_email, created_at, updated_at
		FROM google_tokens
		WHERE user_id = $1
	`
	var t calendar.GoogleToken
	err := q.QueryRow(ctx, query, userID).Scan(
		&t.UserID,
		&t.AccessToken,
		&t.RefreshToken,
		&t.TokenType,
		&t.Expiry,
		&t.Scope,
		&t.GoogleEmail,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return calendar.GoogleToken{}, err
	}
	return t, nil
}

// DeleteByUserID implements calendar.TokenRepository.
func (r *googleTokenRepositoryImpl) DeleteByUserID(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM google_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete google token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListOwners implements calendar.TokenRepository. Inactive users are skipped.
func (r *googleTokenRepositoryImpl) ListOwners(ctx context.Context) ([]calendar.TokenOwner, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT gt.user_id, u.organization_id
		FROM google_tokens gt
		JOIN users u ON u.id = gt.user_id
		WHERE u.is_active
		ORDER BY gt.user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list token owners: %w", err)
	}
	defer rows.Close()

	var owners []calendar.TokenOwner
	for rows.Next() {
		var o calendar.TokenOwner
		if err := rows.Scan(&o.UserID, &o.OrganizationID); err != nil {
			return nil, fmt.Errorf("failed to scan token owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate token owners: %w", err)
	}
	return owners, nil
}
