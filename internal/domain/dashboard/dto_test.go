package dashboard

import (
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
)

func TestDashboardRequest_Validate(t *testing.T) {
	req := DashboardRequest{}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "this_month", req.Period)

	assert.NoError(t, (&DashboardRequest{Period: "this_week"}).Validate())
	assert.Error(t, (&DashboardRequest{Period: "custom"}).Validate())
	assert.Error(t, (&DashboardRequest{Period: "forever"}).Validate())
}

func TestToMissionCounts(t *testing.T) {
	got := ToMissionCounts(mission.StatusCounts{Active: 3, Completed: 2, OnHold: 1, Archived: 4})
	assert.Equal(t, MissionCounts{Total: 10, Active: 3, Completed: 2, OnHold: 1}, got)
}

func TestTopTeamMembers(t *testing.T) {
	var r report.TimeReportResponse
	for i := 0; i < 7; i++ {
		r.UserStats = append(r.UserStats, report.UserTime{Minutes: float64(100 - i)})
	}
	top := TopTeamMembers(r)
	assert.Len(t, top, 5)
	assert.Equal(t, 100.0, top[0].Minutes)

	r.UserStats = r.UserStats[:2]
	assert.Len(t, TopTeamMembers(r), 2)
}
