package mission

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	return verrs.ToMap()
}

func TestCreateMissionRequest_Validate(t *testing.T) {
	t.Run("valid minimal", func(t *testing.T) {
		req := CreateMissionRequest{Title: "Grow ARR", Level: "company"}
		assert.NoError(t, req.Validate())
	})

	t.Run("reversed dates", func(t *testing.T) {
		req := CreateMissionRequest{Title: "x", Level: "member", StartDate: "2025-05-10", EndDate: "2025-05-01"}
		fields := fieldErrors(t, req.Validate())
		assert.Equal(t, ErrInvalidDateRange.Error(), fields["end_date"])
	})

	t.Run("bad enums and ids", func(t *testing.T) {
		req := CreateMissionRequest{Level: "team", Status: "paused", ParentID: strPtr("nope")}
		fields := fieldErrors(t, req.Validate())
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "level")
		assert.Contains(t, fields, "status")
		assert.Contains(t, fields, "parent_id")
	})
}

func TestCreateMissionRequest_Dates(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 4, 0, 0, time.UTC)

	start, end := (&CreateMissionRequest{}).Dates(now)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(DefaultDuration), end)

	start, end = (&CreateMissionRequest{StartDate: "2025-04-01", EndDate: "2025-06-30"}).Dates(now)
	assert.Equal(t, "2025-04-01", start.Format(dateLayout))
	assert.Equal(t, "2025-06-30", end.Format(dateLayout))
}

func TestUpdateMissionRequest_Validate(t *testing.T) {
	empty := ""
	req := UpdateMissionRequest{Title: &empty, StartDate: strPtr("2025-02-01"), EndDate: strPtr("2025-01-01")}
	fields := fieldErrors(t, req.Validate())
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "end_date")

	assert.True(t, (&UpdateMissionRequest{}).IsEmpty())
	assert.False(t, (&UpdateMissionRequest{ClearParent: true}).IsEmpty())
}

func TestCreateKeyResultRequest_Validate(t *testing.T) {
	t.Run("quantitative needs target and unit", func(t *testing.T) {
		req := CreateKeyResultRequest{Title: "Deals", Type: "quantitative", TargetValue: f(0)}
		fields := fieldErrors(t, req.Validate())
		assert.Contains(t, fields, "target_value")
		assert.Contains(t, fields, "unit")
	})

	t.Run("weight bounds", func(t *testing.T) {
		req := CreateKeyResultRequest{Title: "Launch", Type: "qualitative", Weight: intPtr(11)}
		fields := fieldErrors(t, req.Validate())
		assert.Contains(t, fields, "weight")

		req.Weight = intPtr(0)
		assert.Error(t, req.Validate())

		req.Weight = intPtr(10)
		assert.NoError(t, req.Validate())
	})

	t.Run("negative current", func(t *testing.T) {
		req := CreateKeyResultRequest{Title: "Deals", Type: "quantitative", TargetValue: f(10), Unit: strPtr("deals"), CurrentValue: f(-1)}
		fields := fieldErrors(t, req.Validate())
		assert.Contains(t, fields, "current_value")
	})
}

func TestCreateKeyResultRequest_ToKeyResult(t *testing.T) {
	req := CreateKeyResultRequest{Title: "Deals", Type: "quantitative", TargetValue: f(10), Unit: strPtr("deals")}
	kr := req.ToKeyResult("m-1")

	assert.Equal(t, "m-1", kr.MissionID)
	assert.Equal(t, 1, kr.Weight)
	require.NotNil(t, kr.CurrentValue)
	assert.Equal(t, 0.0, *kr.CurrentValue)
	assert.Equal(t, KeyResultNotStarted, kr.Status)

	qual := (&CreateKeyResultRequest{Title: "Ship", Type: "qualitative", TargetValue: f(5), Weight: intPtr(4)}).ToKeyResult("m-1")
	assert.Nil(t, qual.TargetValue)
	assert.Nil(t, qual.CurrentValue)
	assert.Equal(t, 4, qual.Weight)
}

func TestUpdateKeyResultProgressRequest(t *testing.T) {
	assert.Error(t, (&UpdateKeyResultProgressRequest{}).Validate())
	assert.Error(t, (&UpdateKeyResultProgressRequest{CurrentValue: f(-3)}).Validate())
	assert.Error(t, (&UpdateKeyResultProgressRequest{Status: strPtr("done")}).Validate())

	kr := quantitative(1, f(10), f(0))
	req := UpdateKeyResultProgressRequest{CurrentValue: f(4)}
	require.NoError(t, req.Validate())

	updated := req.Apply(kr)
	assert.Equal(t, 4.0, *updated.CurrentValue)
	assert.Equal(t, KeyResultInProgress, updated.Status)
	assert.Equal(t, 0.0, *kr.CurrentValue)

	updated = (&UpdateKeyResultProgressRequest{CurrentValue: f(12)}).Apply(kr)
	assert.Equal(t, KeyResultCompleted, updated.Status)

	done := true
	qual := (&UpdateKeyResultProgressRequest{IsCompleted: &done}).Apply(qualitative(1, false))
	assert.True(t, qual.IsCompleted)
	assert.Equal(t, KeyResultCompleted, qual.Status)
}

func TestToMissionResponse_CarriesProgress(t *testing.T) {
	m := Mission{
		ID:         "m-1",
		Title:      "Win Q3",
		Level:      LevelCompany,
		Status:     StatusActive,
		StartDate:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		KeyResults: []KeyResult{qualitative(1, true), quantitative(3, f(100), f(50))},
	}

	resp := ToMissionResponse(m)
	assert.Equal(t, 63, resp.Progress.ProgressPercentage)
	assert.Equal(t, 1, resp.Progress.CompletedKeyResults)
	assert.Equal(t, 2, resp.Progress.TotalKeyResults)
	assert.Equal(t, "2025-07-01", resp.StartDate)
	require.Len(t, resp.KeyResults, 2)
	assert.Equal(t, 50, resp.KeyResults[1].ProgressPercentage)
	assert.Equal(t, 63, ToMissionSummary(m).ProgressPercentage)
}
