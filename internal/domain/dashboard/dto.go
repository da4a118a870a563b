package dashboard

import (
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

// teamMemberLimit caps the team list shown on the dashboard.
const teamMemberLimit = 5

type DashboardRequest struct {
	Period string `json:"period"`
}

func (r *DashboardRequest) Validate() error {
	if r.Period == "" {
		r.Period = string(report.PeriodThisMonth)
	}
	if report.Period(r.Period) == report.PeriodCustom || !validator.IsInSlice(r.Period, report.ValidPeriods) {
		return validator.ValidationErrors{{Field: "period", Message: "period must be one of this_week, this_month, last_month"}}
	}
	return nil
}

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	User           UserSummary              `json:"user"`
	Missions       MissionCounts            `json:"missions"`
	Time           TimeSummary              `json:"time"`
	MyMinutes      float64                  `json:"my_minutes"`
	ActiveMissions []mission.MissionSummary `json:"active_missions"`
	TeamMembers    []report.UserTime        `json:"team_members"`
	Calendar       CalendarCoverage         `json:"calendar"`
}

type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MissionCounts tallies missions of the organization by status.
type MissionCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	OnHold    int64 `json:"on_hold"`
}

func ToMissionCounts(c mission.StatusCounts) MissionCounts {
	return MissionCounts{
		Total:     c.Active + c.Completed + c.OnHold + c.Archived,
		Active:    c.Active,
		Completed: c.Completed,
		OnHold:    c.OnHold,
	}
}

// TimeSummary is the time report headline for the selected period.
type TimeSummary struct {
	Period         string               `json:"period"`
	StartDate      string               `json:"start_date"`
	EndDate        string               `json:"end_date"`
	IsSample       bool                 `json:"is_sample"`
	TotalMinutes   float64              `json:"total_minutes"`
	TrackedMinutes float64              `json:"tracked_minutes"`
	TrackingRate   int                  `json:"tracking_rate"`
	MissionStats   []report.MissionTime `json:"mission_stats"`
}

func ToTimeSummary(r report.TimeReportResponse) TimeSummary {
	return TimeSummary{
		Period:         r.Period,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		IsSample:       r.IsSample,
		TotalMinutes:   r.TotalMinutes,
		TrackedMinutes: r.TrackedMinutes,
		TrackingRate:   r.TrackingRate,
		MissionStats:   r.MissionStats,
	}
}

// TopTeamMembers returns the users with the most tracked time.
func TopTeamMembers(r report.TimeReportResponse) []report.UserTime {
	if r.UserStats == nil {
		return []report.UserTime{}
	}
	if len(r.UserStats) <= teamMemberLimit {
		return r.UserStats
	}
	return r.UserStats[:teamMemberLimit]
}
