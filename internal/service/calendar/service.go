package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/config"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/gcal"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/ics"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// syncConcurrency bounds parallel user syncs in SyncAll.
const syncConcurrency = 4

// EventLister reads one day of events from a remote calendar.
type EventLister interface {
	ListEvents(ctx context.Context, calendarID string, opts gcal.ListOptions) ([]gcal.Event, error)
}

// StateSigner signs the OAuth state round-tripped through Google.
type StateSigner interface {
	GenerateCalendarState(userID string) (state string, nonce string, err error)
	ValidateCalendarState(state string) (userID string, nonce string, err error)
}

type CalendarServiceImpl struct {
	eventRepo   calendar.EventRepository
	tokenRepo   calendar.TokenRepository
	missionRepo mission.MissionRepository
	userRepo    user.UserRepository
	google      oauth.GoogleService
	state       StateSigner
	newLister   func(*http.Client) EventLister
	cfg         config.SyncConfig
	frontendURL string
	now         func() time.Time
}

func NewCalendarService(
	eventRepo calendar.EventRepository,
	tokenRepo calendar.TokenRepository,
	missionRepo mission.MissionRepository,
	userRepo user.UserRepository,
	google oauth.GoogleService,
	state StateSigner,
	cfg config.SyncConfig,
	frontendURL string,
) calendar.CalendarService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &CalendarServiceImpl{
		eventRepo:   eventRepo,
		tokenRepo:   tokenRepo,
		missionRepo: missionRepo,
		userRepo:    userRepo,
		google:      google,
		state:       state,
		newLister: func(c *http.Client) EventLister {
			return gcal.NewClient(c, "")
		},
		cfg:         cfg,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// ConnectURL implements calendar.CalendarService.
func (s *CalendarServiceImpl) ConnectURL(ctx context.Context) (string, string, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	if !claims.Can(user.PermissionCalendarSync) {
		return "", "", user.ErrInsufficientPermissions
	}

	state, nonce, err := s.state.GenerateCalendarState(claims.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return s.google.RedirectURL(state), nonce, nil
}

// HandleCallback implements calendar.CalendarService.
func (s *CalendarServiceImpl) HandleCallback(ctx context.Context, req calendar.CallbackRequest) string {
	if req.Error != "" {
		slog.Warn("Google OAuth returned an error", "error", req.Error)
		return s.redirectError(calendar.ReasonAuthFailed)
	}
	if req.Code == "" {
		return s.redirectError(calendar.ReasonNoCode)
	}

	userID, nonce, err := s.state.ValidateCalendarState(req.State)
	if err != nil || req.StateCookie == "" || nonce != req.StateCookie {
		slog.Warn("Rejected calendar callback with invalid state", "error", err)
		return s.redirectError(calendar.ReasonInvalidState)
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || !u.IsActive {
		return s.redirectError(calendar.ReasonNotAuthenticated)
	}

	tok, err := s.google.Exchange(ctx, req.Code)
	if err != nil {
		slog.Error("Failed to exchange Google authorization code", "user_id", userID, "error", err)
		return s.redirectError(calendar.ReasonTokenExchangeFailed)
	}

	stored := fromOAuthToken(userID, tok, nil)
	if info, err := s.google.VerifyUser(ctx, tok); err != nil {
		slog.Warn("Failed to fetch Google account info", "user_id", userID, "error", err)
	} else if info.Email != "" {
		stored.GoogleEmail = &info.Email
	}

	if err := s.tokenRepo.Upsert(ctx, stored); err != nil {
		slog.Error("Failed to store Google token", "user_id", userID, "error", err)
		return s.redirectError(calendar.ReasonDBError)
	}

	slog.Info("Google Calendar connected", "user_id", userID)
	return s.frontendURL + "/calendar?success=true"
}

func (s *CalendarServiceImpl) redirectError(reason string) string {
	return s.frontendURL + "/calendar?error=" + reason
}

// Status implements calendar.CalendarService.
func (s *CalendarServiceImpl) Status(ctx context.Context) (calendar.StatusResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return calendar.StatusResponse{}, err
	}

	tok, err := s.tokenRepo.GetByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.StatusResponse{Connected: false}, nil
		}
		return calendar.StatusResponse{}, fmt.Errorf("failed to load calendar token: %w", err)
	}

	resp := calendar.StatusResponse{Connected: true, GoogleEmail: tok.GoogleEmail}
	if tok.Expiry != nil {
		exp := tok.Expiry.Format(time.RFC3339)
		resp.ExpiresAt = &exp
	}
	return resp, nil
}

// Disconnect implements calendar.CalendarService.
func (s *CalendarServiceImpl) Disconnect(ctx context.Context) error {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteByUserID(ctx, claims.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.ErrNotConnected
		}
		return fmt.Errorf("failed to delete calendar token: %w", err)
	}
	return nil
}

// Sync implements calendar.CalendarService.
func (s *CalendarServiceImpl) Sync(ctx context.Context, req calendar.SyncRequest) (calendar.SyncResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return calendar.SyncResponse{}, err
	}
	if !claims.Can(user.PermissionCalendarSync) {
		return calendar.SyncResponse{}, user.ErrInsufficientPermissions
	}
	return s.SyncUser(ctx, calendar.TokenOwner{UserID: claims.UserID, OrganizationID: claims.OrganizationID}, req)
}

// SyncUser implements calendar.CalendarService.
func (s *CalendarServiceImpl) SyncUser(ctx context.Context, owner calendar.TokenOwner, req calendar.SyncRequest) (calendar.SyncResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.SyncResponse{}, err
	}

	stored, err := s.tokenRepo.GetByUserID(ctx, owner.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.SyncResponse{}, calendar.ErrNotConnected
		}
		return calendar.SyncResponse{}, fmt.Errorf("failed to load calendar token: %w", err)
	}

	tok, err := s.google.TokenSource(ctx, toOAuthToken(stored)).Token()
	if err != nil {
		return calendar.SyncResponse{}, fmt.Errorf("%w: refresh token: %v", calendar.ErrProviderUnavailable, err)
	}
	if tok.AccessToken != stored.AccessToken {
		refreshed := fromOAuthToken(owner.UserID, tok, &stored)
		if err := s.tokenRepo.Upsert(ctx, refreshed); err != nil {
			return calendar.SyncResponse{}, fmt.Errorf("failed to persist refreshed token: %w", err)
		}
		slog.Debug("Google token refreshed", "user_id", owner.UserID)
	}

	start, end := req.Day(s.now(), s.cfg.Location)
	lister := s.newLister(s.google.Client(ctx, oauth2.StaticTokenSource(tok)))
	remote, err := lister.ListEvents(ctx, s.cfg.CalendarID, gcal.ListOptions{
		TimeMin:    start,
		TimeMax:    end,
		MaxResults: s.cfg.MaxResults,
		Location:   s.cfg.Location,
	})
	if err != nil {
		return calendar.SyncResponse{}, fmt.Errorf("%w: %v", calendar.ErrProviderUnavailable, err)
	}

	resp := calendar.SyncResponse{Events: make([]calendar.EventResponse, 0, len(remote))}
	for _, re := range remote {
		saved, err := s.eventRepo.Upsert(ctx, calendar.Event{
			OrganizationID: owner.OrganizationID,
			UserID:         owner.UserID,
			ExternalID:     re.ID,
			CalendarID:     s.cfg.CalendarID,
			Source:         calendar.SourceGoogle,
			Title:          titleOrUntitled(re.Summary),
			Description:    optional(re.Description),
			Location:       optional(re.Location),
			StartTime:      re.Start,
			EndTime:        re.End,
			IsAllDay:       re.IsAllDay,
			Attendees:      re.Attendees,
		})
		if err != nil {
			return calendar.SyncResponse{}, fmt.Errorf("failed to store calendar event: %w", err)
		}
		resp.Events = append(resp.Events, calendar.ToEventResponse(saved))
	}
	resp.Synced = len(resp.Events)

	slog.Info("Calendar synced",
		"user_id", owner.UserID,
		"day", start.Format("2006-01-02"),
		"events", resp.Synced,
	)
	return resp, nil
}

// SyncAll implements calendar.CalendarService.
// A failing user is logged and counted; it never aborts the batch.
func (s *CalendarServiceImpl) SyncAll(ctx context.Context) (calendar.SyncAllResult, error) {
	owners, err := s.tokenRepo.ListOwners(ctx)
	if err != nil {
		return calendar.SyncAllResult{}, fmt.Errorf("failed to list calendar connections: %w", err)
	}

	var (
		mu     sync.Mutex
		result = calendar.SyncAllResult{Users: len(owners)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for _, owner := range owners {
		g.Go(func() error {
			resp, err := s.SyncUser(gctx, owner, calendar.SyncRequest{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				slog.Error("Calendar sync failed", "user_id", owner.UserID, "error", err)
				return nil
			}
			result.Events += resp.Synced
			return nil
		})
	}
	_ = g.Wait()

	return result, ctx.Err()
}

// ListEvents implements calendar.CalendarService.
func (s *CalendarServiceImpl) ListEvents(ctx context.Context, req calendar.ListEventsRequest) ([]calendar.EventResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, to := req.Window(s.now().In(s.cfg.Location))
	events, err := s.eventRepo.ListByUser(ctx, claims.UserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}

	resp := make([]calendar.EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, calendar.ToEventResponse(e))
	}
	return resp, nil
}

// AssignMission implements calendar.CalendarService.
func (s *CalendarServiceImpl) AssignMission(ctx context.Context, id string, req calendar.AssignMissionRequest) (calendar.EventResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return calendar.EventResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return calendar.EventResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return calendar.EventResponse{}, calendar.ErrEventNotFound
	}

	if req.MissionID != nil {
		if _, err := s.missionRepo.GetByID(ctx, claims.OrganizationID, *req.MissionID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return calendar.EventResponse{}, calendar.ErrMissionNotFound
			}
			return calendar.EventResponse{}, fmt.Errorf("failed to load mission: %w", err)
		}
	}

	if err := s.eventRepo.AssignMission(ctx, claims.UserID, id, req.MissionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return calendar.EventResponse{}, calendar.ErrEventNotFound
		}
		return calendar.EventResponse{}, fmt.Errorf("failed to assign mission: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, claims.UserID, id)
	if err != nil {
		return calendar.EventResponse{}, fmt.Errorf("failed to reload calendar event: %w", err)
	}
	return calendar.ToEventResponse(event), nil
}

// ImportICS implements calendar.CalendarService.
func (s *CalendarServiceImpl) ImportICS(ctx context.Context, r io.Reader) (calendar.SyncResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return calendar.SyncResponse{}, err
	}
	if !claims.Can(user.PermissionCalendarSync) {
		return calendar.SyncResponse{}, user.ErrInsufficientPermissions
	}

	parsed, err := ics.Parse(r, s.cfg.Location)
	if err != nil {
		return calendar.SyncResponse{}, fmt.Errorf("%w: %v", calendar.ErrInvalidICS, err)
	}

	resp := calendar.SyncResponse{Events: make([]calendar.EventResponse, 0, len(parsed))}
	for _, pe := range parsed {
		saved, err := s.eventRepo.Upsert(ctx, calendar.Event{
			OrganizationID: claims.OrganizationID,
			UserID:         claims.UserID,
			ExternalID:     pe.UID,
			Source:         calendar.SourceICS,
			Title:          titleOrUntitled(pe.Summary),
			Description:    optional(pe.Description),
			Location:       optional(pe.Location),
			StartTime:      pe.StartTime,
			EndTime:        pe.EndTime,
			IsAllDay:       pe.IsAllDay,
			Attendees:      pe.Attendees,
		})
		if err != nil {
			return calendar.SyncResponse{}, fmt.Errorf("failed to store calendar event: %w", err)
		}
		resp.Events = append(resp.Events, calendar.ToEventResponse(saved))
	}
	resp.Synced = len(resp.Events)

	slog.Info("ICS file imported", "user_id", claims.UserID, "events", resp.Synced)
	return resp, nil
}

func toOAuthToken(t calendar.GoogleToken) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: t.AccessToken, TokenType: t.TokenType}
	if t.RefreshToken != nil {
		tok.RefreshToken = *t.RefreshToken
	}
	if t.Expiry != nil {
		tok.Expiry = *t.Expiry
	}
	return tok
}

// fromOAuthToken keeps prev's refresh token and account when Google omits them.
func fromOAuthToken(userID string, tok *oauth2.Token, prev *calendar.GoogleToken) calendar.GoogleToken {
	out := calendar.GoogleToken{
		UserID:      userID,
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}
	if tok.RefreshToken != "" {
		out.RefreshToken = &tok.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		out.Expiry = &expiry
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		out.Scope = &scope
	}
	if prev != nil {
		if out.RefreshToken == nil {
			out.RefreshToken = prev.RefreshToken
		}
		if out.Scope == nil {
			out.Scope = prev.Scope
		}
		out.GoogleEmail = prev.GoogleEmail
	}
	return out
}

func titleOrUntitled(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return calendar.UntitledEvent
	}
	return summary
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
