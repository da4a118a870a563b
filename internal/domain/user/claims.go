package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrMissingClaims = errors.New("authentication claims are missing or invalid")

// Claims is the caller identity carried by an access token.
type Claims struct {
	UserID         string
	OrganizationID string
	Email          string
	Role           Role
}

// Can reports whether the caller's role grants permission.
func (c Claims) Can(permission Permission) bool {
	return HasPermission(c.Role, permission)
}

func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMissingClaims, err)
	}

	userID, _ := claims["user_id"].(string)
	organizationID, _ := claims["organization_id"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	if userID == "" || organizationID == "" || role == "" {
		return Claims{}, ErrMissingClaims
	}

	return Claims{
		UserID:         userID,
		OrganizationID: organizationID,
		Email:          email,
		Role:           Role(role),
	}, nil
}

// WithClaims returns ctx carrying an unsigned token with the given identity.
// Signature checks happen in the HTTP middleware, not in services.
func WithClaims(ctx context.Context, c Claims) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", c.UserID)
	_ = token.Set("organization_id", c.OrganizationID)
	_ = token.Set("email", c.Email)
	_ = token.Set("role", string(c.Role))
	_ = token.Set("type", "access")
	return jwtauth.NewContext(ctx, token, nil)
}
