package mission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

// maxParentDepth bounds the ancestor walk when checking for cycles.
const maxParentDepth = 32

type MissionServiceImpl struct {
	missionRepo   mission.MissionRepository
	keyResultRepo mission.KeyResultRepository
	userRepo      user.UserRepository
	now           func() time.Time
}

func NewMissionService(missionRepo mission.MissionRepository, keyResultRepo mission.KeyResultRepository, userRepo user.UserRepository) mission.MissionService {
	return &MissionServiceImpl{
		missionRepo:   missionRepo,
		keyResultRepo: keyResultRepo,
		userRepo:      userRepo,
		now:           time.Now,
	}
}

func canManage(claims user.Claims, m mission.Mission) bool {
	return claims.Can(user.PermissionMissionManageAll) || m.OwnerID == claims.UserID
}

func (s *MissionServiceImpl) getMission(ctx context.Context, organizationID, id string) (mission.Mission, error) {
	if !validator.IsValidUUID(id) {
		return mission.Mission{}, mission.ErrMissionNotFound
	}
	m, err := s.missionRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.Mission{}, mission.ErrMissionNotFound
		}
		return mission.Mission{}, fmt.Errorf("failed to get mission: %w", err)
	}
	return m, nil
}

// attachKeyResults loads key results for all missions with a single query.
func (s *MissionServiceImpl) attachKeyResults(ctx context.Context, missions []mission.Mission) error {
	if len(missions) == 0 {
		return nil
	}
	ids := make([]string, len(missions))
	for i, m := range missions {
		ids[i] = m.ID
	}

	krs, err := s.keyResultRepo.ListByMissionIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to list key results: %w", err)
	}

	byMission := make(map[string][]mission.KeyResult, len(missions))
	for _, kr := range krs {
		byMission[kr.MissionID] = append(byMission[kr.MissionID], kr)
	}
	for i := range missions {
		missions[i].KeyResults = byMission[missions[i].ID]
	}
	return nil
}

func (s *MissionServiceImpl) checkOwner(ctx context.Context, claims user.Claims, ownerID string) error {
	if ownerID != claims.UserID && !claims.Can(user.PermissionGroupManage) {
		return mission.ErrNotMissionOwner
	}
	if _, err := s.userRepo.GetByID(ctx, claims.OrganizationID, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.ErrOwnerNotFound
		}
		return fmt.Errorf("failed to get owner: %w", err)
	}
	return nil
}

// checkParent verifies parentID exists and is not id or one of its descendants.
func (s *MissionServiceImpl) checkParent(ctx context.Context, organizationID, id, parentID string) error {
	if id != "" && parentID == id {
		return mission.ErrMissionCannotBeOwnParent
	}

	current := parentID
	for depth := 0; depth < maxParentDepth; depth++ {
		parent, err := s.missionRepo.GetByID(ctx, organizationID, current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				if depth == 0 {
					return mission.ErrParentMissionNotFound
				}
				return nil
			}
			return fmt.Errorf("failed to get parent mission: %w", err)
		}
		if parent.ParentID == nil {
			return nil
		}
		if id != "" && *parent.ParentID == id {
			return mission.ErrMissionCycle
		}
		current = *parent.ParentID
	}
	return mission.ErrMissionCycle
}

// Create implements mission.MissionService.
func (s *MissionServiceImpl) Create(ctx context.Context, req mission.CreateMissionRequest) (mission.MissionResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return mission.MissionResponse{}, err
	}
	if !claims.Can(user.PermissionMissionCreate) {
		return mission.MissionResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return mission.MissionResponse{}, err
	}
	if mission.Level(req.Level) == mission.LevelCompany && !claims.Can(user.PermissionMissionManageAll) {
		return mission.MissionResponse{}, mission.ErrCompanyLevelRestricted
	}

	ownerID := claims.UserID
	if req.OwnerID != nil {
		ownerID = *req.OwnerID
	}
	if err := s.checkOwner(ctx, claims, ownerID); err != nil {
		return mission.MissionResponse{}, err
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, claims.OrganizationID, "", *req.ParentID); err != nil {
			return mission.MissionResponse{}, err
		}
	}

	start, end := req.Dates(s.now())
	if end.Before(start) {
		return mission.MissionResponse{}, mission.ErrInvalidDateRange
	}

	status := mission.StatusActive
	if req.Status != "" {
		status = mission.Status(req.Status)
	}

	created, err := s.missionRepo.Create(ctx, mission.Mission{
		OrganizationID: claims.OrganizationID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Level:          mission.Level(req.Level),
		Status:         status,
		OwnerID:        ownerID,
		ParentID:       req.ParentID,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		return mission.MissionResponse{}, fmt.Errorf("failed to create mission: %w", err)
	}

	slog.Info("Mission created", "mission_id", created.ID, "level", created.Level, "owner_id", ownerID)
	return mission.ToMissionResponse(created), nil
}

// List implements mission.MissionService.
func (s *MissionServiceImpl) List(ctx context.Context, filter mission.ListMissionsFilter) (mission.ListMissionsResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return mission.ListMissionsResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return mission.ListMissionsResponse{}, err
	}

	missions, err := s.missionRepo.List(ctx, claims.OrganizationID, filter)
	if err != nil {
		return mission.ListMissionsResponse{}, fmt.Errorf("failed to list missions: %w", err)
	}
	if err := s.attachKeyResults(ctx, missions); err != nil {
		return mission.ListMissionsResponse{}, err
	}

	counts, err := s.missionRepo.CountByStatus(ctx, claims.OrganizationID)
	if err != nil {
		return mission.ListMissionsResponse{}, fmt.Errorf("failed to count missions: %w", err)
	}

	resp := mission.ListMissionsResponse{
		Missions:     make([]mission.MissionResponse, 0, len(missions)),
		StatusCounts: counts,
	}
	for _, m := range missions {
		resp.Missions = append(resp.Missions, mission.ToMissionResponse(m))
	}
	return resp, nil
}

// Get implements mission.MissionService.
func (s *MissionServiceImpl) Get(ctx context.Context, id string) (mission.MissionDetailResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return mission.MissionDetailResponse{}, err
	}
	m, err := s.getMission(ctx, claims.OrganizationID, id)
	if err != nil {
		return mission.MissionDetailResponse{}, err
	}

	children, err := s.missionRepo.ListChildren(ctx, claims.OrganizationID, id)
	if err != nil {
		return mission.MissionDetailResponse{}, fmt.Errorf("failed to list child missions: %w", err)
	}

	related := append([]mission.Mission{m}, children...)
	var parent *mission.Mission
	if m.ParentID != nil {
		p, err := s.missionRepo.GetByID(ctx, claims.OrganizationID, *m.ParentID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return mission.MissionDetailResponse{}, fmt.Errorf("failed to get parent mission: %w", err)
		}
		if err == nil {
			parent = &p
			related = append(related, p)
		}
	}
	if err := s.attachKeyResults(ctx, related); err != nil {
		return mission.MissionDetailResponse{}, err
	}

	resp := mission.MissionDetailResponse{
		MissionResponse: mission.ToMissionResponse(related[0]),
		Children:        make([]mission.MissionSummary, 0, len(children)),
	}
	for _, c := range related[1 : 1+len(children)] {
		resp.Children = append(resp.Children, mission.ToMissionSummary(c))
	}
	if parent != nil {
		summary := mission.ToMissionSummary(related[len(related)-1])
		resp.Parent = &summary
	}
	return resp, nil
}

// Update implements mission.MissionService.
func (s *MissionServiceImpl) Update(ctx context.Context, id string, req mission.UpdateMissionRequest) (mission.MissionResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return mission.MissionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return mission.MissionResponse{}, err
	}

	m, err := s.getMission(ctx, claims.OrganizationID, id)
	if err != nil {
		return mission.MissionResponse{}, err
	}
	if !canManage(claims, m) {
		return mission.MissionResponse{}, mission.ErrNotMissionOwner
	}

	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = req.Description
	}
	if req.Level != nil {
		m.Level = mission.Level(*req.Level)
	}
	if m.Level == mission.LevelCompany && !claims.Can(user.PermissionMissionManageAll) {
		return mission.MissionResponse{}, mission.ErrCompanyLevelRestricted
	}
	if req.Status != nil {
		m.Status = mission.Status(*req.Status)
	}
	if req.OwnerID != nil && *req.OwnerID != m.OwnerID {
		if err := s.checkOwner(ctx, claims, *req.OwnerID); err != nil {
			return mission.MissionResponse{}, err
		}
		m.OwnerID = *req.OwnerID
	}
	switch {
	case req.ClearParent:
		m.ParentID = nil
	case req.ParentID != nil:
		if err := s.checkParent(ctx, claims.OrganizationID, m.ID, *req.ParentID); err != nil {
			return mission.MissionResponse{}, err
		}
		m.ParentID = req.ParentID
	}
	if req.StartDate != nil {
		m.StartDate, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		m.EndDate, _ = validator.IsValidDate(*req.EndDate)
	}
	if m.EndDate.Before(m.StartDate) {
		return mission.MissionResponse{}, mission.ErrInvalidDateRange
	}

	if err := s.missionRepo.Update(ctx, m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.MissionResponse{}, mission.ErrMissionNotFound
		}
		return mission.MissionResponse{}, fmt.Errorf("failed to update mission: %w", err)
	}

	missions := []mission.Mission{m}
	if err := s.attachKeyResults(ctx, missions); err != nil {
		return mission.MissionResponse{}, err
	}
	return mission.ToMissionResponse(missions[0]), nil
}

// Delete implements mission.MissionService. Key results cascade; children are detached.
func (s *MissionServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	m, err := s.getMission(ctx, claims.OrganizationID, id)
	if err != nil {
		return err
	}
	if !canManage(claims, m) {
		return mission.ErrNotMissionOwner
	}

	if err := s.missionRepo.Delete(ctx, claims.OrganizationID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.ErrMissionNotFound
		}
		return fmt.Errorf("failed to delete mission: %w", err)
	}

	slog.Info("Mission deleted", "mission_id", id, "deleted_by", claims.UserID)
	return nil
}

// CreateKeyResult implements mission.MissionService.
func (s *MissionServiceImpl) CreateKeyResult(ctx context.Context, missionID string, req mission.CreateKeyResultRequest) (mission.KeyResultResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return mission.KeyResultResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return mission.KeyResultResponse{}, err
	}

	m, err := s.getMission(ctx, claims.OrganizationID, missionID)
	if err != nil {
		return mission.KeyResultResponse{}, err
	}
	if !canManage(claims, m) {
		return mission.KeyResultResponse{}, mission.ErrNotMissionOwner
	}

	kr := req.ToKeyResult(m.ID)
	kr.Title = strings.TrimSpace(kr.Title)
	created, err := s.keyResultRepo.Create(ctx, kr)
	if err != nil {
		return mission.KeyResultResponse{}, fmt.Errorf("failed to create key result: %w", err)
	}
	return mission.ToKeyResultResponse(created), nil
}

func (s *MissionServiceImpl) loadKeyResult(ctx context.Context, claims user.Claims, id string) (mission.KeyResult, error) {
	if !validator.IsValidUUID(id) {
		return mission.KeyResult{}, mission.ErrKeyResultNotFound
	}
	kr, err := s.keyResultRepo.GetByID(ctx, claims.OrganizationID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.KeyResult{}, mission.ErrKeyResultNotFound
		}
		return mission.KeyResult{}, fmt.Errorf("failed to get key result: %w", err)
	}

	m, err := s.getMission(ctx, claims.OrganizationID, kr.MissionID)
	if err != nil {
		return mission.KeyResult{}, err
	}
	if !canManage(claims, m) {
		return mission.KeyResult{}, mission.ErrNotMissionOwner
	}
	return kr, nil
}

// UpdateKeyResultProgress implements mission.MissionService.
func (s *MissionServiceImpl) UpdateKeyResultProgress(ctx context.Context, id string, req mission.UpdateKeyResultProgressRequest) (mission.KeyResultResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return mission.KeyResultResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return mission.KeyResultResponse{}, err
	}

	kr, err := s.loadKeyResult(ctx, claims, id)
	if err != nil {
		return mission.KeyResultResponse{}, err
	}

	kr = req.Apply(kr)
	if err := s.keyResultRepo.UpdateProgress(ctx, kr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.KeyResultResponse{}, mission.ErrKeyResultNotFound
		}
		return mission.KeyResultResponse{}, fmt.Errorf("failed to update key result: %w", err)
	}
	return mission.ToKeyResultResponse(kr), nil
}

// DeleteKeyResult implements mission.MissionService.
func (s *MissionServiceImpl) DeleteKeyResult(ctx context.Context, id string) error {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	kr, err := s.loadKeyResult(ctx, claims, id)
	if err != nil {
		return err
	}

	if err := s.keyResultRepo.Delete(ctx, kr.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mission.ErrKeyResultNotFound
		}
		return fmt.Errorf("failed to delete key result: %w", err)
	}
	return nil
}
