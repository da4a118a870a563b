package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/importer"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
)

type ImportHandler interface {
	ImportKeyResults(w http.ResponseWriter, r *http.Request)
}

type importHandlerImpl struct {
	importService importer.ImportService
}

func NewImportHandler(importService importer.ImportService) ImportHandler {
	return &importHandlerImpl{importService: importService}
}

// ImportKeyResults handles POST /import/key-results (multipart field "file").
func (h *importHandlerImpl) ImportKeyResults(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer file.Close()

	result, err := h.importService.ImportKeyResults(r.Context(), file, fileHeader.Filename)
	if err != nil {
		slog.Error("Key result import error", "error", err, "filename", fileHeader.Filename)
		response.HandleError(w, err)
		return
	}

	slog.Info("Key result import finished", "total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)
	response.SuccessWithMessage(w, "Import finished", result)
}
