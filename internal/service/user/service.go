package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/mission-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	userRepo     user.UserRepository
	orgRepo      organization.OrganizationRepository
	jwtRepo      postgresql.JWTRepository
	emailService email.EmailService
	loginURL     string
}

func NewUserService(
	userRepo user.UserRepository,
	orgRepo organization.OrganizationRepository,
	jwtRepo postgresql.JWTRepository,
	emailService email.EmailService,
	frontendURL string,
) user.UserService {
	return &UserServiceImpl{
		userRepo:     userRepo,
		orgRepo:      orgRepo,
		jwtRepo:      jwtRepo,
		emailService: emailService,
		loginURL:     strings.TrimRight(frontendURL, "/") + "/login",
	}
}

func (s *UserServiceImpl) requireManager(ctx context.Context) (user.Claims, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return user.Claims{}, err
	}
	if !claims.Can(user.PermissionUserManage) {
		return user.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

func mapNotFound(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrUserNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.UserResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx, claims.OrganizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return user.UserResponse{}, user.ErrUserNotFound
	}

	u, err := s.userRepo.GetByID(ctx, claims.OrganizationID, id)
	if err != nil {
		return user.UserResponse{}, mapNotFound(err, "get user")
	}
	return user.ToResponse(u), nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.Get(ctx, claims.UserID)
}

// Invite implements user.UserService.
func (s *UserServiceImpl) Invite(ctx context.Context, req user.InviteUserRequest) (user.UserResponse, error) {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	temporaryPassword := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	hash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	created, err := s.userRepo.Create(ctx, user.User{
		OrganizationID: claims.OrganizationID,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Name:           strings.TrimSpace(req.Name),
		Role:           user.Role(req.Role),
		IsActive:       true,
		PasswordHash:   &hashed,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.UserResponse{}, user.ErrUserEmailExists
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	data := email.InvitationData{
		Name:              created.Name,
		Role:              string(created.Role),
		TemporaryPassword: temporaryPassword,
		LoginURL:          s.loginURL,
	}
	if org, err := s.orgRepo.GetByID(ctx, claims.OrganizationID); err == nil {
		data.OrganizationName = org.Name
	}
	if inviter, err := s.userRepo.GetByID(ctx, claims.OrganizationID, claims.UserID); err == nil {
		data.InviterName = inviter.Name
	}

	if err := s.emailService.SendInvitation(created.Email, data); err != nil {
		slog.Error("Failed to send invitation email", "user_id", created.ID, "error", err)
	}

	slog.Info("User invited", "user_id", created.ID, "organization_id", claims.OrganizationID, "role", created.Role)
	return user.ToResponse(created), nil
}

// UpdateRole implements user.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, id string, req user.UpdateRoleRequest) error {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return user.ErrUserNotFound
	}
	if id == claims.UserID {
		return user.ErrCannotChangeOwnRole
	}

	if err := s.userRepo.UpdateRole(ctx, claims.OrganizationID, id, user.Role(req.Role)); err != nil {
		return mapNotFound(err, "update role")
	}
	return nil
}

// SetActive implements user.UserService. Deactivation revokes refresh tokens.
func (s *UserServiceImpl) SetActive(ctx context.Context, id string, req user.SetActiveRequest) error {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return user.ErrUserNotFound
	}
	if id == claims.UserID && !*req.IsActive {
		return user.ErrCannotDeactivateSelf
	}

	if err := s.userRepo.SetActive(ctx, claims.OrganizationID, id, *req.IsActive); err != nil {
		return mapNotFound(err, "update user status")
	}
	if !*req.IsActive {
		if err := s.jwtRepo.RevokeAllForUser(ctx, id); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
	}
	return nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := s.requireManager(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return user.ErrUserNotFound
	}
	if id == claims.UserID {
		return user.ErrCannotDeleteSelf
	}

	if err := s.userRepo.Delete(ctx, claims.OrganizationID, id); err != nil {
		return mapNotFound(err, "delete user")
	}
	return nil
}
