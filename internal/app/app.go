// Package app wires repositories and services for the API server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/mission-backend-go/internal/config"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/group"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/importer"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/mission"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/mission-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/mission-backend-go/internal/service/auth"
	calendarService "github.com/cmlabs-hris/mission-backend-go/internal/service/calendar"
	dashboardService "github.com/cmlabs-hris/mission-backend-go/internal/service/dashboard"
	"github.com/cmlabs-hris/mission-backend-go/internal/service/file"
	groupService "github.com/cmlabs-hris/mission-backend-go/internal/service/group"
	importService "github.com/cmlabs-hris/mission-backend-go/internal/service/importer"
	missionService "github.com/cmlabs-hris/mission-backend-go/internal/service/mission"
	organizationService "github.com/cmlabs-hris/mission-backend-go/internal/service/organization"
	reportService "github.com/cmlabs-hris/mission-backend-go/internal/service/report"
	userService "github.com/cmlabs-hris/mission-backend-go/internal/service/user"
)

type App struct {
	Config *config.Config
	DB     *database.DB
	JWT    jwt.Service

	Auth         auth.AuthService
	Organization organization.OrganizationService
	User         user.UserService
	Group        group.GroupService
	Mission      mission.MissionService
	Import       importer.ImportService
	Calendar     calendar.CalendarService
	Report       report.ReportService
	Dashboard    dashboard.DashboardService
	File         file.FileService
}

// New connects to PostgreSQL and builds every service. Call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	orgRepo := postgresql.NewOrganizationRepository(db)
	groupRepo := postgresql.NewGroupRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)
	missionRepo := postgresql.NewMissionRepository(db)
	keyResultRepo := postgresql.NewKeyResultRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	eventRepo := postgresql.NewCalendarEventRepository(db)
	tokenRepo := postgresql.NewGoogleTokenRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.App.Env == "production")
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	fileService := file.NewFileService(fileStorage)

	missionSvc := missionService.NewMissionService(missionRepo, keyResultRepo, userRepo)
	reportSvc := reportService.NewReportService(reportRepo)

	return &App{
		Config: cfg,
		DB:     db,
		JWT:    JWTService,

		Auth:         serviceAuth.NewAuthService(tx, userRepo, JWTService, jwtRepo),
		Organization: organizationService.NewOrganizationService(tx, orgRepo, userRepo),
		User:         userService.NewUserService(userRepo, orgRepo, jwtRepo, emailService, cfg.App.FrontendURL),
		Group:        groupService.NewGroupService(groupRepo, userRepo),
		Mission:      missionSvc,
		Import:       importService.NewImportService(tx, keyResultRepo, fileService),
		Calendar: calendarService.NewCalendarService(
			eventRepo,
			tokenRepo,
			missionRepo,
			userRepo,
			GoogleService,
			JWTService,
			cfg.Sync,
			cfg.App.FrontendURL,
		),
		Report:    reportSvc,
		Dashboard: dashboardService.NewDashboardService(dashboardRepo, missionSvc, reportSvc, userRepo),
		File:      fileService,
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
