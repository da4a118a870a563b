package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	missionService mission.MissionService
	reportService  report.ReportService
	userRepo       user.UserRepository
	now            func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	missionService mission.MissionService,
	reportService report.ReportService,
	userRepo user.UserRepository,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		missionService:      missionService,
		reportService:       reportService,
		userRepo:            userRepo,
		now:                 time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines.
// Callers without report.view get their own time in place of the team's.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, req dashboard.DashboardRequest) (dashboard.DashboardResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return dashboard.DashboardResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	reportReq := report.TimeReportRequest{Period: req.Period}
	dr := reportReq.Range(s.now())
	canViewTeam := claims.Can(user.PermissionReportView)

	var (
		me         user.User
		missions   mission.ListMissionsResponse
		teamReport report.TimeReportResponse
		myReport   report.TimeReportResponse
		coverage   dashboard.CalendarCoverage
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Current user
	g.Go(func() error {
		u, err := s.userRepo.GetByID(gCtx, claims.OrganizationID, claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return user.ErrUserNotFound
			}
			return fmt.Errorf("failed to load current user: %w", err)
		}
		me = u
		return nil
	})

	// 2. Active missions with progress, plus status counts
	g.Go(func() error {
		active := string(mission.StatusActive)
		resp, err := s.missionService.List(gCtx, mission.ListMissionsFilter{Status: &active})
		if err != nil {
			return err
		}
		missions = resp
		return nil
	})

	// 3. Organization time report
	if canViewTeam {
		g.Go(func() error {
			resp, err := s.reportService.BuildTimeReport(gCtx, claims.OrganizationID, reportReq)
			if err != nil {
				return err
			}
			teamReport = resp
			return nil
		})
	}

	// 4. Own time report
	g.Go(func() error {
		self := claims.UserID
		resp, err := s.reportService.BuildTimeReport(gCtx, claims.OrganizationID, report.TimeReportRequest{Period: req.Period, UserID: &self})
		if err != nil {
			return err
		}
		myReport = resp
		return nil
	})

	// 5. Calendar coverage (1 query)
	g.Go(func() error {
		stats, err := s.GetCalendarCoverage(gCtx, claims.OrganizationID, dr.Start, dr.End)
		if err != nil {
			return err
		}
		coverage = stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.DashboardResponse{}, err
	}

	if !canViewTeam {
		teamReport = myReport
	}

	resp := dashboard.DashboardResponse{
		User:           dashboard.UserSummary{ID: me.ID, Name: me.Name, Role: string(me.Role)},
		Missions:       dashboard.ToMissionCounts(missions.StatusCounts),
		Time:           dashboard.ToTimeSummary(teamReport),
		ActiveMissions: make([]mission.MissionSummary, 0, len(missions.Missions)),
		TeamMembers:    dashboard.TopTeamMembers(teamReport),
		Calendar:       coverage,
	}
	if !myReport.IsSample {
		resp.MyMinutes = myReport.TrackedMinutes
	}
	for _, m := range missions.Missions {
		resp.ActiveMissions = append(resp.ActiveMissions, mission.MissionSummary{
			ID:                 m.ID,
			Title:              m.Title,
			Level:              m.Level,
			Status:             m.Status,
			ProgressPercentage: m.Progress.ProgressPercentage,
		})
	}

	return resp, nil
}
