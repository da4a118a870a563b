package report

import "context"

type ReportService interface {
	GetTimeReport(ctx context.Context, req TimeReportRequest) (TimeReportResponse, error)
	// BuildTimeReport skips claim lookup, for the CLI and background callers.
	BuildTimeReport(ctx context.Context, organizationID string, req TimeReportRequest) (TimeReportResponse, error)
}
