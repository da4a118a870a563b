package mission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgID    = "org-1"
	execID   = "00000000-0000-7000-8000-00000000e001"
	memberID = "00000000-0000-7000-8000-00000000a001"
	otherID  = "00000000-0000-7000-8000-00000000a002"
)

func ptr[T any](v T) *T { return &v }

type fakeStore struct {
	seq      int
	missions map[string]mission.Mission
	krs      map[string]mission.KeyResult
}

func newStore() *fakeStore {
	return &fakeStore{missions: map[string]mission.Mission{}, krs: map[string]mission.KeyResult{}}
}

func (st *fakeStore) nextID() string {
	st.seq++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", st.seq)
}

type fakeMissionRepo struct{ *fakeStore }

func (r fakeMissionRepo) Create(_ context.Context, m mission.Mission) (mission.Mission, error) {
	m.ID = r.nextID()
	r.missions[m.ID] = m
	return m, nil
}

func (r fakeMissionRepo) GetByID(_ context.Context, org, id string) (mission.Mission, error) {
	m, ok := r.missions[id]
	if !ok || m.OrganizationID != org {
		return mission.Mission{}, pgx.ErrNoRows
	}
	return m, nil
}

func (r fakeMissionRepo) List(_ context.Context, org string, filter mission.ListMissionsFilter) ([]mission.Mission, error) {
	var out []mission.Mission
	for i := 1; i <= r.seq; i++ {
		m, ok := r.missions[fmt.Sprintf("00000000-0000-7000-8000-%012d", i)]
		if !ok || m.OrganizationID != org {
			continue
		}
		if filter.Level != nil && string(m.Level) != *filter.Level {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r fakeMissionRepo) ListChildren(_ context.Context, org, parentID string) ([]mission.Mission, error) {
	var out []mission.Mission
	for _, m := range r.missions {
		if m.ParentID != nil && *m.ParentID == parentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r fakeMissionRepo) Update(_ context.Context, m mission.Mission) error {
	m.KeyResults = nil
	r.missions[m.ID] = m
	return nil
}

func (r fakeMissionRepo) Delete(_ context.Context, _, id string) error {
	delete(r.missions, id)
	for krID, kr := range r.krs {
		if kr.MissionID == id {
			delete(r.krs, krID)
		}
	}
	return nil
}

func (r fakeMissionRepo) CountByStatus(_ context.Context, org string) (mission.StatusCounts, error) {
	var c mission.StatusCounts
	for _, m := range r.missions {
		switch m.Status {
		case mission.StatusActive:
			c.Active++
		case mission.StatusCompleted:
			c.Completed++
		}
	}
	return c, nil
}

type fakeKeyResultRepo struct{ *fakeStore }

func (r fakeKeyResultRepo) Create(_ context.Context, kr mission.KeyResult) (mission.KeyResult, error) {
	kr.ID = r.nextID()
	r.krs[kr.ID] = kr
	return kr, nil
}

func (r fakeKeyResultRepo) GetByID(_ context.Context, org, id string) (mission.KeyResult, error) {
	kr, ok := r.krs[id]
	if !ok || r.missions[kr.MissionID].OrganizationID != org {
		return mission.KeyResult{}, pgx.ErrNoRows
	}
	return kr, nil
}

func (r fakeKeyResultRepo) ListByMissionIDs(_ context.Context, ids []string) ([]mission.KeyResult, error) {
	var out []mission.KeyResult
	for _, id := range ids {
		for i := 1; i <= r.seq; i++ {
			kr, ok := r.krs[fmt.Sprintf("00000000-0000-7000-8000-%012d", i)]
			if ok && kr.MissionID == id {
				out = append(out, kr)
			}
		}
	}
	return out, nil
}

func (r fakeKeyResultRepo) ListByTitle(_ context.Context, _, title string) ([]mission.KeyResult, error) {
	return nil, nil
}

func (r fakeKeyResultRepo) UpdateProgress(_ context.Context, kr mission.KeyResult) error {
	r.krs[kr.ID] = kr
	return nil
}

func (r fakeKeyResultRepo) Delete(_ context.Context, id string) error {
	delete(r.krs, id)
	return nil
}

type fakeUserRepo struct {
	user.UserRepository
}

func (fakeUserRepo) GetByID(_ context.Context, org, id string) (user.User, error) {
	switch id {
	case execID, memberID, otherID:
		return user.User{ID: id, OrganizationID: org}, nil
	}
	return user.User{}, pgx.ErrNoRows
}

func newService() (*MissionServiceImpl, *fakeStore) {
	st := newStore()
	svc := NewMissionService(fakeMissionRepo{st}, fakeKeyResultRepo{st}, fakeUserRepo{}).(*MissionServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC) }
	return svc, st
}

func as(id string, role user.Role) context.Context {
	return user.WithClaims(context.Background(), user.Claims{UserID: id, OrganizationID: orgID, Role: role})
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.Create(as(memberID, user.RoleMember), mission.CreateMissionRequest{Title: " Ship v2 ", Level: "member"})
	require.NoError(t, err)

	assert.Equal(t, "Ship v2", resp.Title)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, memberID, resp.OwnerID)
	assert.Equal(t, "2025-04-01", resp.StartDate)
	assert.Equal(t, "2025-06-30", resp.EndDate)
	assert.Equal(t, 0, resp.Progress.ProgressPercentage)
	assert.NotNil(t, resp.KeyResults)
}

func TestCreate_Rules(t *testing.T) {
	svc, _ := newService()
	member := as(memberID, user.RoleMember)

	_, err := svc.Create(member, mission.CreateMissionRequest{Title: "Grow", Level: "company"})
	assert.ErrorIs(t, err, mission.ErrCompanyLevelRestricted)

	_, err = svc.Create(member, mission.CreateMissionRequest{Title: "Grow", Level: "member", OwnerID: ptr(otherID)})
	assert.ErrorIs(t, err, mission.ErrNotMissionOwner)

	_, err = svc.Create(as(execID, user.RoleExecutive), mission.CreateMissionRequest{
		Title: "Grow", Level: "company", OwnerID: ptr("00000000-0000-7000-8000-0000000000ff"),
	})
	assert.ErrorIs(t, err, mission.ErrOwnerNotFound)

	_, err = svc.Create(member, mission.CreateMissionRequest{
		Title: "Grow", Level: "member", ParentID: ptr("00000000-0000-7000-8000-0000000000ff"),
	})
	assert.ErrorIs(t, err, mission.ErrParentMissionNotFound)

	// an end date before the defaulted start
	_, err = svc.Create(member, mission.CreateMissionRequest{Title: "Grow", Level: "member", EndDate: "2025-01-01"})
	assert.ErrorIs(t, err, mission.ErrInvalidDateRange)
}

func TestKeyResultsDriveProgress(t *testing.T) {
	svc, _ := newService()
	ctx := as(memberID, user.RoleMember)

	m, err := svc.Create(ctx, mission.CreateMissionRequest{Title: "Revenue", Level: "member"})
	require.NoError(t, err)

	w3 := 3
	sales, err := svc.CreateKeyResult(ctx, m.ID, mission.CreateKeyResultRequest{
		Title: "Sales", Type: "quantitative", Weight: &w3, TargetValue: ptr(100.0), Unit: ptr("deals"),
	})
	require.NoError(t, err)
	assert.Equal(t, "not_started", sales.Status)

	launch, err := svc.CreateKeyResult(ctx, m.ID, mission.CreateKeyResultRequest{Title: "Launch", Type: "qualitative"})
	require.NoError(t, err)

	updated, err := svc.UpdateKeyResultProgress(ctx, sales.ID, mission.UpdateKeyResultProgressRequest{CurrentValue: ptr(50.0)})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", updated.Status)
	assert.Equal(t, 50, updated.ProgressPercentage)

	done := true
	_, err = svc.UpdateKeyResultProgress(ctx, launch.ID, mission.UpdateKeyResultProgressRequest{IsCompleted: &done})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	// (3*0.5 + 1) / 4 = 62.5 -> 63
	assert.Equal(t, 63, detail.Progress.ProgressPercentage)
	assert.Equal(t, 1, detail.Progress.CompletedKeyResults)
	assert.Equal(t, 2, detail.Progress.TotalKeyResults)

	// another member cannot touch the key results
	_, err = svc.UpdateKeyResultProgress(as(otherID, user.RoleMember), sales.ID, mission.UpdateKeyResultProgressRequest{CurrentValue: ptr(99.0)})
	assert.ErrorIs(t, err, mission.ErrNotMissionOwner)

	require.NoError(t, svc.DeleteKeyResult(ctx, launch.ID))
	_, err = svc.UpdateKeyResultProgress(ctx, launch.ID, mission.UpdateKeyResultProgressRequest{IsCompleted: &done})
	assert.ErrorIs(t, err, mission.ErrKeyResultNotFound)
}

func TestGet_ParentAndChildren(t *testing.T) {
	svc, _ := newService()
	exec := as(execID, user.RoleExecutive)

	company, err := svc.Create(exec, mission.CreateMissionRequest{Title: "Company", Level: "company"})
	require.NoError(t, err)
	team, err := svc.Create(exec, mission.CreateMissionRequest{Title: "Team", Level: "manager", ParentID: &company.ID})
	require.NoError(t, err)

	detail, err := svc.Get(exec, team.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Parent)
	assert.Equal(t, company.ID, detail.Parent.ID)
	assert.Empty(t, detail.Children)

	detail, err = svc.Get(exec, company.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Parent)
	require.Len(t, detail.Children, 1)
	assert.Equal(t, "Team", detail.Children[0].Title)

	_, err = svc.Get(exec, "not-a-uuid")
	assert.ErrorIs(t, err, mission.ErrMissionNotFound)
}

func TestUpdate_ParentCycle(t *testing.T) {
	svc, _ := newService()
	exec := as(execID, user.RoleExecutive)

	a, err := svc.Create(exec, mission.CreateMissionRequest{Title: "A", Level: "company"})
	require.NoError(t, err)
	b, err := svc.Create(exec, mission.CreateMissionRequest{Title: "B", Level: "manager", ParentID: &a.ID})
	require.NoError(t, err)
	c, err := svc.Create(exec, mission.CreateMissionRequest{Title: "C", Level: "member", ParentID: &b.ID})
	require.NoError(t, err)

	_, err = svc.Update(exec, a.ID, mission.UpdateMissionRequest{ParentID: &a.ID})
	assert.ErrorIs(t, err, mission.ErrMissionCannotBeOwnParent)

	_, err = svc.Update(exec, a.ID, mission.UpdateMissionRequest{ParentID: &c.ID})
	assert.ErrorIs(t, err, mission.ErrMissionCycle)

	resp, err := svc.Update(exec, c.ID, mission.UpdateMissionRequest{ClearParent: true, Status: ptr("on_hold")})
	require.NoError(t, err)
	assert.Nil(t, resp.ParentID)
	assert.Equal(t, "on_hold", resp.Status)

	_, err = svc.Update(exec, c.ID, mission.UpdateMissionRequest{StartDate: ptr("2025-12-01"), EndDate: ptr("2025-11-01")})
	assert.Error(t, err)
}

func TestListAndDelete(t *testing.T) {
	svc, st := newService()
	ctx := as(memberID, user.RoleMember)

	m, err := svc.Create(ctx, mission.CreateMissionRequest{Title: "Mine", Level: "member"})
	require.NoError(t, err)
	_, err = svc.CreateKeyResult(ctx, m.ID, mission.CreateKeyResultRequest{Title: "Done", Type: "qualitative"})
	require.NoError(t, err)

	list, err := svc.List(ctx, mission.ListMissionsFilter{})
	require.NoError(t, err)
	require.Len(t, list.Missions, 1)
	assert.Len(t, list.Missions[0].KeyResults, 1)
	assert.Equal(t, int64(1), list.StatusCounts.Active)

	assert.ErrorIs(t, svc.Delete(as(otherID, user.RoleMember), m.ID), mission.ErrNotMissionOwner)
	require.NoError(t, svc.Delete(as(execID, user.RoleExecutive), m.ID))
	assert.Empty(t, st.missions)
	assert.Empty(t, st.krs)
}
