package organization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type OrganizationServiceImpl struct {
	tx       postgresql.Transactor
	orgRepo  organization.OrganizationRepository
	userRepo user.UserRepository
}

func NewOrganizationService(tx postgresql.Transactor, orgRepo organization.OrganizationRepository, userRepo user.UserRepository) organization.OrganizationService {
	return &OrganizationServiceImpl{
		tx:       tx,
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// GetMyOrganization implements organization.OrganizationService.
func (s *OrganizationServiceImpl) GetMyOrganization(ctx context.Context) (organization.OrganizationResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	org, err := s.orgRepo.GetByID(ctx, claims.OrganizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.OrganizationResponse{}, organization.ErrOrganizationNotFound
		}
		return organization.OrganizationResponse{}, fmt.Errorf("failed to get organization: %w", err)
	}

	return organization.ToResponse(org), nil
}

// UpdateMyOrganization implements organization.OrganizationService.
func (s *OrganizationServiceImpl) UpdateMyOrganization(ctx context.Context, req organization.UpdateOrganizationRequest) (organization.OrganizationResponse, error) {
	claims, err := user.ClaimsFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}
	if claims.Role != user.RoleExecutive {
		return organization.OrganizationResponse{}, organization.ErrExecutiveOnly
	}
	if err := req.Validate(); err != nil {
		return organization.OrganizationResponse{}, err
	}

	org, err := s.orgRepo.Update(ctx, claims.OrganizationID, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.OrganizationResponse{}, organization.ErrOrganizationNotFound
		}
		return organization.OrganizationResponse{}, fmt.Errorf("failed to update organization: %w", err)
	}

	slog.Info("Organization updated", "organization_id", org.ID, "updated_by", claims.UserID)
	return organization.ToResponse(org), nil
}

// Bootstrap implements organization.OrganizationService.
func (s *OrganizationServiceImpl) Bootstrap(ctx context.Context, req organization.BootstrapRequest) (organization.OrganizationResponse, error) {
	if err := req.Validate(); err != nil {
		return organization.OrganizationResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return organization.OrganizationResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	var created organization.Organization
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.orgRepo.Create(txCtx, organization.Organization{
			Name: req.Name,
			Slug: req.Slug,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return organization.ErrOrganizationSlugExists
			}
			return fmt.Errorf("failed to create organization: %w", err)
		}

		_, err = s.userRepo.Create(txCtx, user.User{
			OrganizationID: created.ID,
			Email:          req.Email,
			Name:           req.ExecutiveName,
			Role:           user.RoleExecutive,
			IsActive:       true,
			PasswordHash:   &hashed,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return user.ErrUserEmailExists
			}
			return fmt.Errorf("failed to create executive: %w", err)
		}
		return nil
	})
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	slog.Info("Organization bootstrapped", "organization_id", created.ID, "slug", created.Slug)
	return organization.ToResponse(created), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
