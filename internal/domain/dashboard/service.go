package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined dashboard data using goroutines
	GetDashboard(ctx context.Context, req DashboardRequest) (DashboardResponse, error)
}
