package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvePeriod(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// Wednesday
	now := time.Date(2025, 3, 12, 15, 30, 0, 0, tokyo)

	tests := []struct {
		name      string
		period    Period
		wantStart time.Time
		wantEnd   time.Time
		want      Period
	}{
		{
			name:      "this week starts monday",
			period:    PeriodThisWeek,
			wantStart: time.Date(2025, 3, 10, 0, 0, 0, 0, tokyo),
			wantEnd:   time.Date(2025, 3, 16, 23, 59, 59, 999_000_000, tokyo),
			want:      PeriodThisWeek,
		},
		{
			name:      "this month",
			period:    PeriodThisMonth,
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, tokyo),
			wantEnd:   time.Date(2025, 3, 31, 23, 59, 59, 999_000_000, tokyo),
			want:      PeriodThisMonth,
		},
		{
			name:      "last month",
			period:    PeriodLastMonth,
			wantStart: time.Date(2025, 2, 1, 0, 0, 0, 0, tokyo),
			wantEnd:   time.Date(2025, 2, 28, 23, 59, 59, 999_000_000, tokyo),
			want:      PeriodLastMonth,
		},
		{
			name:      "unknown falls back to this month",
			period:    Period("fortnight"),
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, tokyo),
			wantEnd:   time.Date(2025, 3, 31, 23, 59, 59, 999_000_000, tokyo),
			want:      PeriodThisMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePeriod(tt.period, now, time.Time{}, time.Time{})
			assert.True(t, tt.wantStart.Equal(got.Start), "start %v", got.Start)
			assert.True(t, tt.wantEnd.Equal(got.End), "end %v", got.End)
			assert.Equal(t, tt.want, got.Period)
		})
	}
}

func TestResolvePeriod_SundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC)
	got := ResolvePeriod(PeriodThisWeek, sunday, time.Time{}, time.Time{})
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got.Start)
}

func TestResolvePeriod_LastMonthAcrossYear(t *testing.T) {
	jan := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	got := ResolvePeriod(PeriodLastMonth, jan, time.Time{}, time.Time{})
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, 31, got.End.Day())
}

func TestResolvePeriod_Custom(t *testing.T) {
	now := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	start := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	got := ResolvePeriod(PeriodCustom, now, start, end)
	assert.Equal(t, start, got.Start)
	assert.Equal(t, time.Date(2025, 1, 7, 23, 59, 59, 999_000_000, time.UTC), got.End)
}

func TestTimeReportRequest_Validate(t *testing.T) {
	req := TimeReportRequest{}
	assert.NoError(t, req.Validate())
	assert.Equal(t, string(PeriodThisMonth), req.Period)

	assert.Error(t, (&TimeReportRequest{Period: "yesterday"}).Validate())
	assert.Error(t, (&TimeReportRequest{Period: "custom", StartDate: "2025-01-05"}).Validate())
	assert.Error(t, (&TimeReportRequest{Period: "custom", StartDate: "2025-02-05", EndDate: "2025-01-05"}).Validate())
	assert.Error(t, (&TimeReportRequest{Period: "custom", StartDate: "2023-01-01", EndDate: "2025-01-05"}).Validate())
	assert.NoError(t, (&TimeReportRequest{Period: "custom", StartDate: "2025-01-05", EndDate: "2025-01-05"}).Validate())

	bad := "x"
	assert.Error(t, (&TimeReportRequest{UserID: &bad}).Validate())
}
