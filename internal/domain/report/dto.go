package report

import (
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
)

// maxCustomRange caps custom report windows.
const maxCustomRange = 366 * 24 * time.Hour

type TimeReportRequest struct {
	Period    string `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// UserID narrows the report to one user.
	UserID *string `json:"user_id,omitempty"`
}

func (r *TimeReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Period == "" {
		r.Period = string(PeriodThisMonth)
	}
	if !validator.IsInSlice(r.Period, ValidPeriods) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of this_week, this_month, last_month, custom",
		})
	}

	if Period(r.Period) == PeriodCustom {
		start, startOK := validator.IsValidDate(r.StartDate)
		end, endOK := validator.IsValidDate(r.EndDate)
		if !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		if !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		if startOK && endOK {
			if end.Before(start) {
				errs = append(errs, validator.ValidationError{
					Field:   "end_date",
					Message: "end_date must not be before start_date",
				})
			} else if end.Sub(start) > maxCustomRange {
				errs = append(errs, validator.ValidationError{
					Field:   "end_date",
					Message: "custom range must not exceed one year",
				})
			}
		}
	}

	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range resolves the request against now. Call Validate first.
func (r *TimeReportRequest) Range(now time.Time) DateRange {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return ResolvePeriod(Period(r.Period), now, start, end)
}

type TimeReportResponse struct {
	Period      string `json:"period"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsSample    bool   `json:"is_sample"`
	GeneratedAt string `json:"generated_at"`
	TimeReport
}
