package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (AccessTokenResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}
