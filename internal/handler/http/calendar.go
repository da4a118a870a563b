package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/mission-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

const (
	calendarStateCookieName = "calendar_state"
	calendarStateCookiePath = "/api/v1/calendar"
	calendarStateMaxAge     = 600
)

type CalendarHandler interface {
	Connect(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	Disconnect(w http.ResponseWriter, r *http.Request)
	Sync(w http.ResponseWriter, r *http.Request)
	ListEvents(w http.ResponseWriter, r *http.Request)
	AssignMission(w http.ResponseWriter, r *http.Request)
	ImportICS(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
	fileService     file.FileService
	secureCookies   bool
}

func NewCalendarHandler(calendarService calendar.CalendarService, fileService file.FileService, secureCookies bool) CalendarHandler {
	return &calendarHandlerImpl{
		calendarService: calendarService,
		fileService:     fileService,
		secureCookies:   secureCookies,
	}
}

// Connect handles GET /calendar/connect. Clients asking for JSON get the
// consent URL in the body instead of a redirect.
func (h *calendarHandlerImpl) Connect(w http.ResponseWriter, r *http.Request) {
	url, nonce, err := h.calendarService.ConnectURL(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.stateCookie(nonce, calendarStateMaxAge))

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		response.Success(w, map[string]string{"url": url})
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback handles GET /calendar/callback. It always redirects to the frontend.
func (h *calendarHandlerImpl) Callback(w http.ResponseWriter, r *http.Request) {
	req := calendar.CallbackRequest{
		Code:  r.URL.Query().Get("code"),
		State: r.URL.Query().Get("state"),
		Error: r.URL.Query().Get("error"),
	}
	if cookie, err := r.Cookie(calendarStateCookieName); err == nil {
		req.StateCookie = cookie.Value
	}

	// The nonce is single use.
	http.SetCookie(w, h.stateCookie("", -1))
	http.Redirect(w, r, h.calendarService.HandleCallback(r.Context(), req), http.StatusFound)
}

// Status handles GET /calendar/status
func (h *calendarHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.calendarService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Disconnect handles DELETE /calendar/connection
func (h *calendarHandlerImpl) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.calendarService.Disconnect(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Google Calendar disconnected", nil)
}

// Sync handles POST /calendar/sync with an optional {"date": "YYYY-MM-DD"} body.
func (h *calendarHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	var req calendar.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.calendarService.Sync(r.Context(), req)
	if err != nil {
		slog.Error("Calendar sync error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Calendar synced successfully", result)
}

// ListEvents handles GET /calendar/events?from=&to=
func (h *calendarHandlerImpl) ListEvents(w http.ResponseWriter, r *http.Request) {
	req := calendar.ListEventsRequest{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}

	result, err := h.calendarService.ListEvents(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AssignMission handles PUT /calendar/events/{id}/mission
func (h *calendarHandlerImpl) AssignMission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Event ID is required", nil)
		return
	}

	var req calendar.AssignMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.calendarService.AssignMission(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Event classified successfully", result)
}

// ImportICS handles POST /calendar/import-ics (multipart field "file").
func (h *calendarHandlerImpl) ImportICS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	f, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer f.Close()

	if err := h.fileService.CheckImportFile(file.ImportCalendar, fileHeader.Filename); err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(w, "Failed to read file", nil)
		return
	}

	result, err := h.calendarService.ImportICS(r.Context(), bytes.NewReader(data))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if claims, err := user.ClaimsFromContext(r.Context()); err == nil {
		if _, err := h.fileService.ArchiveImport(r.Context(), claims.OrganizationID, file.ImportCalendar, bytes.NewReader(data), fileHeader.Filename); err != nil {
			slog.Warn("Failed to archive calendar import", "organization_id", claims.OrganizationID, "error", err)
		}
	}

	response.SuccessWithMessage(w, "Calendar file imported successfully", result)
}

func (h *calendarHandlerImpl) stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     calendarStateCookieName,
		Value:    value,
		Path:     calendarStateCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
