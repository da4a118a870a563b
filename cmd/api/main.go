package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/app"
	"github.com/cmlabs-hris/mission-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/mission-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/cron"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "mission-tracker"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		a.JWT,
		appHTTP.Handlers{
			Auth:         appHTTP.NewAuthHandler(a.JWT, a.Auth),
			Organization: appHTTP.NewOrganizationHandler(a.Organization),
			User:         appHTTP.NewUserHandler(a.User),
			Group:        appHTTP.NewGroupHandler(a.Group),
			Mission:      appHTTP.NewMissionHandler(a.Mission),
			Import:       appHTTP.NewImportHandler(a.Import),
			Calendar:     appHTTP.NewCalendarHandler(a.Calendar, a.File, cfg.App.Env == "production"),
			Report:       appHTTP.NewReportHandler(a.Report),
			Dashboard:    appHTTP.NewDashboardHandler(a.Dashboard),
		},
	)

	scheduler := cron.NewScheduler()
	if cfg.Sync.Enabled {
		cron.NewCalendarJobs(a.Calendar, cfg.Sync.Interval).RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
