package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/group"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type GroupServiceImpl struct {
	groupRepo group.GroupRepository
	userRepo  user.UserRepository
}

func NewGroupService(groupRepo group.GroupRepository, userRepo user.UserRepository) group.GroupService {
	return &GroupServiceImpl{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// loadManaged fetches a group and checks the caller may change it.
func (s *GroupServiceImpl) loadManaged(ctx context.Context, id string) (user.Claims, group.Group, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return user.Claims{}, group.Group{}, err
	}
	if !claims.Can(user.PermissionGroupManage) {
		return user.Claims{}, group.Group{}, user.ErrInsufficientPermissions
	}
	if !validator.IsValidUUID(id) {
		return user.Claims{}, group.Group{}, group.ErrGroupNotFound
	}

	g, err := s.groupRepo.GetByID(ctx, claims.OrganizationID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Claims{}, group.Group{}, group.ErrGroupNotFound
		}
		return user.Claims{}, group.Group{}, fmt.Errorf("failed to get group: %w", err)
	}
	if claims.Role != user.RoleExecutive && g.ManagerID != claims.UserID {
		return user.Claims{}, group.Group{}, group.ErrNotGroupManager
	}
	return claims, g, nil
}

func (s *GroupServiceImpl) checkManager(ctx context.Context, organizationID, managerID string) (user.User, error) {
	manager, err := s.userRepo.GetByID(ctx, organizationID, managerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, group.ErrManagerNotFound
		}
		return user.User{}, fmt.Errorf("failed to get manager: %w", err)
	}
	if !manager.IsManager() {
		return user.User{}, group.ErrManagerRoleRequired
	}
	return manager, nil
}

// Create implements group.GroupService.
func (s *GroupServiceImpl) Create(ctx context.Context, req group.CreateGroupRequest) (group.GroupResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return group.GroupResponse{}, err
	}
	if !claims.Can(user.PermissionGroupManage) {
		return group.GroupResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return group.GroupResponse{}, err
	}

	manager, err := s.checkManager(ctx, claims.OrganizationID, req.ManagerID)
	if err != nil {
		return group.GroupResponse{}, err
	}

	created, err := s.groupRepo.Create(ctx, group.Group{
		OrganizationID: claims.OrganizationID,
		ManagerID:      manager.ID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return group.GroupResponse{}, group.ErrGroupNameExists
		}
		return group.GroupResponse{}, err
	}
	created.ManagerName = manager.Name

	slog.Info("Group created", "group_id", created.ID, "organization_id", claims.OrganizationID)
	return group.ToResponse(created), nil
}

// List implements group.GroupService.
func (s *GroupServiceImpl) List(ctx context.Context) ([]group.GroupResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.List(ctx, claims.OrganizationID)
	if err != nil {
		return nil, err
	}

	responses := make([]group.GroupResponse, 0, len(groups))
	for _, g := range groups {
		responses = append(responses, group.ToResponse(g))
	}
	return responses, nil
}

// Get implements group.GroupService.
func (s *GroupServiceImpl) Get(ctx context.Context, id string) (group.GroupDetailResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return group.GroupDetailResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return group.GroupDetailResponse{}, group.ErrGroupNotFound
	}

	g, err := s.groupRepo.GetByID(ctx, claims.OrganizationID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return group.GroupDetailResponse{}, group.ErrGroupNotFound
		}
		return group.GroupDetailResponse{}, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.groupRepo.ListMembers(ctx, g.ID)
	if err != nil {
		return group.GroupDetailResponse{}, err
	}

	return group.ToDetailResponse(g, members), nil
}

// Update implements group.GroupService.
func (s *GroupServiceImpl) Update(ctx context.Context, id string, req group.UpdateGroupRequest) (group.GroupResponse, error) {
	if err := req.Validate(); err != nil {
		return group.GroupResponse{}, err
	}
	claims, g, err := s.loadManaged(ctx, id)
	if err != nil {
		return group.GroupResponse{}, err
	}

	if req.Name != nil {
		g.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		g.Description = req.Description
	}
	if req.ManagerID != nil && *req.ManagerID != g.ManagerID {
		manager, err := s.checkManager(ctx, claims.OrganizationID, *req.ManagerID)
		if err != nil {
			return group.GroupResponse{}, err
		}
		g.ManagerID = manager.ID
		g.ManagerName = manager.Name
	}

	updated, err := s.groupRepo.Update(ctx, g)
	if err != nil {
		if isUniqueViolation(err) {
			return group.GroupResponse{}, group.ErrGroupNameExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return group.GroupResponse{}, group.ErrGroupNotFound
		}
		return group.GroupResponse{}, fmt.Errorf("failed to update group: %w", err)
	}
	return group.ToResponse(updated), nil
}

// Delete implements group.GroupService.
func (s *GroupServiceImpl) Delete(ctx context.Context, id string) error {
	claims, g, err := s.loadManaged(ctx, id)
	if err != nil {
		return err
	}

	if err := s.groupRepo.Delete(ctx, claims.OrganizationID, g.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return group.ErrGroupNotFound
		}
		return err
	}
	slog.Info("Group deleted", "group_id", g.ID, "deleted_by", claims.UserID)
	return nil
}

// AddMember implements group.GroupService.
func (s *GroupServiceImpl) AddMember(ctx context.Context, id string, req group.AddMemberRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	claims, g, err := s.loadManaged(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, claims.OrganizationID, req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return group.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.groupRepo.AddMember(ctx, g.ID, req.UserID); err != nil {
		if isUniqueViolation(err) {
			return group.ErrMemberAlreadyInGroup
		}
		return err
	}
	return nil
}

// RemoveMember implements group.GroupService.
func (s *GroupServiceImpl) RemoveMember(ctx context.Context, id, userID string) error {
	_, g, err := s.loadManaged(ctx, id)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(userID) {
		return group.ErrMemberNotFound
	}

	if err := s.groupRepo.RemoveMember(ctx, g.ID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return group.ErrMemberNotFound
		}
		return err
	}
	return nil
}
