package http

import (
	"log/slog"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the request logger and CORS origins.
type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth         AuthHandler
	Organization OrganizationHandler
	User         UserHandler
	Group        GroupHandler
	Mission      MissionHandler
	Import       ImportHandler
	Calendar     CalendarHandler
	Report       ReportHandler
	Dashboard    DashboardHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Google redirects here without a bearer token; the signed state identifies the user.
		r.Get("/calendar/callback", h.Calendar.Callback)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Put("/auth/password", h.Auth.ChangePassword)

			r.Route("/organizations/my", func(r chi.Router) {
				r.Get("/", h.Organization.GetMy)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireExecutive)
					r.Put("/", h.Organization.UpdateMy)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.Get("/me", h.User.Me)
				r.Get("/{id}", h.User.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionUserManage))
					r.Post("/", h.User.Invite)
					r.Delete("/{id}", h.User.Delete)
					r.Put("/{id}/role", h.User.UpdateRole)
					r.Put("/{id}/active", h.User.SetActive)
				})
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", h.Group.List)
				r.Get("/{id}", h.Group.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionGroupManage))
					r.Post("/", h.Group.Create)
					r.Put("/{id}", h.Group.Update)
					r.Delete("/{id}", h.Group.Delete)
					r.Post("/{id}/members", h.Group.AddMember)
					r.Delete("/{id}/members/{userID}", h.Group.RemoveMember)
				})
			})

			// Ownership rules are checked per mission in the service.
			r.Route("/missions", func(r chi.Router) {
				r.Get("/", h.Mission.List)
				r.Post("/", h.Mission.Create)
				r.Get("/{id}", h.Mission.Get)
				r.Put("/{id}", h.Mission.Update)
				r.Delete("/{id}", h.Mission.Delete)
				r.Post("/{id}/key-results", h.Mission.CreateKeyResult)
			})

			r.Route("/key-results", func(r chi.Router) {
				r.Put("/{id}/progress", h.Mission.UpdateKeyResultProgress)
				r.Delete("/{id}", h.Mission.DeleteKeyResult)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionImportRun))
				r.Post("/import/key-results", h.Import.ImportKeyResults)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionCalendarSync))
				r.Get("/connect", h.Calendar.Connect)
				r.Get("/status", h.Calendar.Status)
				r.Delete("/connection", h.Calendar.Disconnect)
				r.Post("/sync", h.Calendar.Sync)
				r.Get("/events", h.Calendar.ListEvents)
				r.Put("/events/{id}/mission", h.Calendar.AssignMission)
				r.Post("/import-ics", h.Calendar.ImportICS)
			})

			r.Get("/reports/time", h.Report.GetTimeReport)
			r.Get("/dashboard", h.Dashboard.GetDashboard)
		})
	})
	return r
}
