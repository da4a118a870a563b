package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/mission-backend-go/internal/handler/http/response"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := user.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !claims.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireExecutive requires executive role
func RequireExecutive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := user.ClaimsFromContext(r.Context())
		if err != nil || claims.Role != user.RoleExecutive {
			response.Forbidden(w, "Executive access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
