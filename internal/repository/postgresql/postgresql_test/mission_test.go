package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

func TestMissionRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	missions := postgresql.NewMissionRepository(db)
	keyResults := postgresql.NewKeyResultRepository(db)

	org := createTestOrganization(t, db, "acme")
	owner := createTestUser(t, db, org.ID, "ana@acme.io", user.RoleExecutive)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	parent, err := missions.Create(ctx, mission.Mission{
		OrganizationID: org.ID,
		Title:          "Grow revenue",
		Level:          mission.LevelCompany,
		Status:         mission.StatusActive,
		OwnerID:        owner.ID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 3, 0),
	})
	require.NoError(t, err)

	child, err := missions.Create(ctx, mission.Mission{
		OrganizationID: org.ID,
		Title:          "Close enterprise deals",
		Level:          mission.LevelManager,
		Status:         mission.StatusOnHold,
		OwnerID:        owner.ID,
		ParentID:       &parent.ID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	got, err := missions.GetByID(ctx, org.ID, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.io", got.OwnerName)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)

	children, err := missions.ListChildren(ctx, org.ID, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	level := string(mission.LevelCompany)
	companyLevel, err := missions.List(ctx, org.ID, mission.ListMissionsFilter{Level: &level})
	require.NoError(t, err)
	require.Len(t, companyLevel, 1)
	assert.Equal(t, parent.ID, companyLevel[0].ID)

	counts, err := missions.CountByStatus(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.StatusCounts{Active: 1, OnHold: 1}, counts)

	kr, err := keyResults.Create(ctx, mission.KeyResult{
		MissionID:    child.ID,
		Title:        "Signed contracts",
		Type:         mission.KeyResultQuantitative,
		Weight:       2,
		TargetValue:  float(20),
		CurrentValue: float(0),
		Unit:         strPtr("deals"),
		Status:       mission.KeyResultNotStarted,
	})
	require.NoError(t, err)

	byTitle, err := keyResults.ListByTitle(ctx, org.ID, "Signed contracts")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	kr.CurrentValue = float(12)
	kr.Status = mission.KeyResultInProgress
	require.NoError(t, keyResults.UpdateProgress(ctx, kr))

	listed, err := keyResults.ListByMissionIDs(ctx, []string{parent.ID, child.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.InDelta(t, 12, *listed[0].CurrentValue, 0.001)

	// Deleting the parent detaches the child and the child's key results stay.
	require.NoError(t, missions.Delete(ctx, org.ID, parent.ID))
	got, err = missions.GetByID(ctx, org.ID, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	// Deleting the child cascades to its key results.
	require.NoError(t, missions.Delete(ctx, org.ID, child.ID))
	_, err = keyResults.GetByID(ctx, org.ID, kr.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestKeyResultRepository_OrganizationScope(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	acme := createTestOrganization(t, db, "acme")
	other := createTestOrganization(t, db, "other")
	owner := createTestUser(t, db, acme.ID, "ana@acme.io", user.RoleExecutive)

	m, err := postgresql.NewMissionRepository(db).Create(ctx, mission.Mission{
		OrganizationID: acme.ID,
		Title:          "Ship v2",
		Level:          mission.LevelCompany,
		Status:         mission.StatusActive,
		OwnerID:        owner.ID,
		StartDate:      time.Now(),
		EndDate:        time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	repo := postgresql.NewKeyResultRepository(db)
	kr, err := repo.Create(ctx, mission.KeyResult{
		MissionID: m.ID,
		Title:     "Launch",
		Type:      mission.KeyResultQualitative,
		Weight:    1,
		Status:    mission.KeyResultNotStarted,
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, other.ID, kr.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	matches, err := repo.ListByTitle(ctx, other.ID, "Launch")
	require.NoError(t, err)
	assert.Empty(t, matches)

	empty, err := repo.ListByMissionIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func strPtr(s string) *string { return &s }
