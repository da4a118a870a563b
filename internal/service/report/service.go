package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// GetTimeReport implements report.ReportService.
// Callers without report.view only ever see their own time.
func (s *ReportServiceImpl) GetTimeReport(ctx context.Context, req report.TimeReportRequest) (report.TimeReportResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return report.TimeReportResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return report.TimeReportResponse{}, err
	}

	if !claims.Can(user.PermissionReportView) {
		self := claims.UserID
		req.UserID = &self
	}

	return s.buildTimeReport(ctx, claims.OrganizationID, req)
}

// BuildTimeReport implements report.ReportService.
func (s *ReportServiceImpl) BuildTimeReport(ctx context.Context, organizationID string, req report.TimeReportRequest) (report.TimeReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.TimeReportResponse{}, err
	}
	return s.buildTimeReport(ctx, organizationID, req)
}

// buildTimeReport expects a validated request.
func (s *ReportServiceImpl) buildTimeReport(ctx context.Context, organizationID string, req report.TimeReportRequest) (report.TimeReportResponse, error) {
	now := s.now()
	dr := req.Range(now)

	events, err := s.reportRepo.ListEventRecords(ctx, organizationID, dr.Start, dr.End, req.UserID)
	if err != nil {
		return report.TimeReportResponse{}, fmt.Errorf("failed to load calendar events: %w", err)
	}

	resp := report.TimeReportResponse{
		Period:      string(dr.Period),
		StartDate:   dr.Start.Format("2006-01-02"),
		EndDate:     dr.End.Format("2006-01-02"),
		GeneratedAt: now.Format(time.RFC3339),
	}

	if len(events) == 0 {
		slog.Debug("No calendar events in period, serving sample report",
			"organization_id", organizationID,
			"period", dr.Period,
		)
		resp.IsSample = true
		resp.TimeReport = report.SampleReport()
		return resp, nil
	}

	resp.TimeReport = report.Aggregate(events)
	return resp, nil
}
