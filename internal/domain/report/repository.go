package report

import (
	"context"
	"time"
)

type ReportRepository interface {
	// ListEventRecords returns events starting at or after start and ending at or before end.
	ListEventRecords(ctx context.Context, organizationID string, start, end time.Time, userID *string) ([]EventRecord, error)
}
