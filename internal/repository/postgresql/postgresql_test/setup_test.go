package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/mission-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

var truncatedTables = []string{
	"calendar_events",
	"key_results",
	"missions",
	"group_members",
	"groups",
	"google_tokens",
	"refresh_tokens",
	"users",
	"organizations",
}

// newTestDB connects to TEST_DATABASE_URL, which must already carry the
// migrations/ schema, and empties every table. Tests skip without it.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	for _, table := range truncatedTables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
	return db
}

func createTestOrganization(t *testing.T, db *database.DB, slug string) organization.Organization {
	t.Helper()
	org, err := postgresql.NewOrganizationRepository(db).Create(context.Background(), organization.Organization{
		Name: "Org " + slug,
		Slug: slug,
	})
	require.NoError(t, err)
	return org
}

func createTestUser(t *testing.T, db *database.DB, orgID, email string, role user.Role) user.User {
	t.Helper()
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	u, err := postgresql.NewUserRepository(db).Create(context.Background(), user.User{
		OrganizationID: orgID,
		Email:          email,
		Name:           email,
		Role:           role,
		IsActive:       true,
		PasswordHash:   &hash,
	})
	require.NoError(t, err)
	return u
}
