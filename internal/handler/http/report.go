package http

import (
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetTimeReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// GetTimeReport handles GET /reports/time?period=&start_date=&end_date=&user_id=
func (h *reportHandlerImpl) GetTimeReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := report.TimeReportRequest{
		Period:    query.Get("period"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	if userID := query.Get("user_id"); userID != "" {
		req.UserID = &userID
	}

	result, err := h.reportService.GetTimeReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
