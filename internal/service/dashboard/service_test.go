package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgID  = "1f2e3d4c-5b6a-4978-8a9b-0c1d2e3f4a5b"
	userID = "1f2e3d4c-5b6a-4978-8a9b-0c1d2e3f4a5c"
)

type fakeDashboardRepo struct {
	start, end time.Time
}

func (f *fakeDashboardRepo) GetCalendarCoverage(_ context.Context, _ string, start, end time.Time) (dashboard.CalendarCoverage, error) {
	f.start, f.end = start, end
	return dashboard.CalendarCoverage{ActiveUsers: 4, ConnectedUsers: 3, Events: 20, UnclassifiedEvents: 5}, nil
}

type fakeMissionService struct {
	mission.MissionService
	err error
}

func (f fakeMissionService) List(_ context.Context, filter mission.ListMissionsFilter) (mission.ListMissionsResponse, error) {
	if f.err != nil {
		return mission.ListMissionsResponse{}, f.err
	}
	if filter.Status == nil || *filter.Status != "active" {
		return mission.ListMissionsResponse{}, errors.New("expected active filter")
	}
	return mission.ListMissionsResponse{
		Missions: []mission.MissionResponse{
			{ID: "m1", Title: "Grow EMEA", Level: "company", Status: "active", Progress: mission.MissionProgress{ProgressPercentage: 42}},
		},
		StatusCounts: mission.StatusCounts{Active: 1, Completed: 2, OnHold: 1},
	}, nil
}

type fakeReportService struct {
	mu       sync.Mutex
	requests []report.TimeReportRequest
}

func (f *fakeReportService) GetTimeReport(context.Context, report.TimeReportRequest) (report.TimeReportResponse, error) {
	return report.TimeReportResponse{}, errors.New("not used")
}

func (f *fakeReportService) BuildTimeReport(_ context.Context, _ string, req report.TimeReportRequest) (report.TimeReportResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.UserID != nil {
		return report.TimeReportResponse{
			Period:     req.Period,
			TimeReport: report.TimeReport{TotalMinutes: 90, TrackedMinutes: 60, TrackingRate: 67},
		}, nil
	}
	var users []report.UserTime
	for i := 0; i < 6; i++ {
		users = append(users, report.UserTime{ID: string(rune('a' + i)), Minutes: float64(600 - i*60)})
	}
	return report.TimeReportResponse{
		Period:     req.Period,
		StartDate:  "2025-06-01",
		EndDate:    "2025-06-30",
		TimeReport: report.TimeReport{TotalMinutes: 2400, TrackedMinutes: 1800, TrackingRate: 75, UserStats: users},
	}, nil
}

type fakeUserRepo struct {
	user.UserRepository
}

func (fakeUserRepo) GetByID(_ context.Context, org, id string) (user.User, error) {
	return user.User{ID: id, OrganizationID: org, Name: "Mika", Role: user.RoleManager}, nil
}

func as(role user.Role) context.Context {
	return user.WithClaims(context.Background(), user.Claims{UserID: userID, OrganizationID: orgID, Role: role})
}

func newService(missions fakeMissionService, reports *fakeReportService, repo *fakeDashboardRepo) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		missionService:      missions,
		reportService:       reports,
		userRepo:            fakeUserRepo{},
		now:                 func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) },
	}
}

func TestGetDashboard_Manager(t *testing.T) {
	reports := &fakeReportService{}
	repo := &fakeDashboardRepo{}
	svc := newService(fakeMissionService{}, reports, repo)

	got, err := svc.GetDashboard(as(user.RoleManager), dashboard.DashboardRequest{})
	require.NoError(t, err)

	assert.Equal(t, "Mika", got.User.Name)
	assert.Equal(t, dashboard.MissionCounts{Total: 4, Active: 1, Completed: 2, OnHold: 1}, got.Missions)
	require.Len(t, got.ActiveMissions, 1)
	assert.Equal(t, 42, got.ActiveMissions[0].ProgressPercentage)
	assert.Equal(t, 1800.0, got.Time.TrackedMinutes)
	assert.Equal(t, 75, got.Time.TrackingRate)
	assert.Len(t, got.TeamMembers, 5)
	assert.Equal(t, 60.0, got.MyMinutes)
	assert.Equal(t, int64(3), got.Calendar.ConnectedUsers)
	assert.Len(t, reports.requests, 2)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), repo.start)
}

func TestGetDashboard_MemberSeesOwnTime(t *testing.T) {
	reports := &fakeReportService{}
	svc := newService(fakeMissionService{}, reports, &fakeDashboardRepo{})

	got, err := svc.GetDashboard(as(user.RoleMember), dashboard.DashboardRequest{Period: "this_week"})
	require.NoError(t, err)

	require.Len(t, reports.requests, 1)
	require.NotNil(t, reports.requests[0].UserID)
	assert.Equal(t, userID, *reports.requests[0].UserID)
	assert.Equal(t, 60.0, got.Time.TrackedMinutes)
	assert.Empty(t, got.TeamMembers)
}

func TestGetDashboard_Errors(t *testing.T) {
	svc := newService(fakeMissionService{err: errors.New("db down")}, &fakeReportService{}, &fakeDashboardRepo{})

	_, err := svc.GetDashboard(context.Background(), dashboard.DashboardRequest{})
	assert.ErrorIs(t, err, user.ErrMissingClaims)

	_, err = svc.GetDashboard(as(user.RoleManager), dashboard.DashboardRequest{Period: "custom"})
	assert.Error(t, err)

	_, err = svc.GetDashboard(as(user.RoleManager), dashboard.DashboardRequest{})
	assert.ErrorContains(t, err, "db down")
}
