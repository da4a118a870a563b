package jwt

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess        = "access"
	TokenTypeRefresh       = "refresh"
	TokenTypeCalendarState = "calendar_state"

	calendarStateTTL = 10 * time.Minute
)

type Service interface {
	GenerateAccessToken(userID string, email string, organizationID string, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// GenerateCalendarState signs the OAuth state round-tripped through Google.
	GenerateCalendarState(userID string) (state string, nonce string, err error)
	// ValidateCalendarState returns the user id and nonce carried by state.
	ValidateCalendarState(state string) (userID string, nonce string, err error)
	ValidateRefreshToken(token string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	secureCookies              bool
	tokenAuth                  *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, secureCookies bool) Service {
	return &JWTService{
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		secureCookies:              secureCookies,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, organizationID string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":         userID,
		"email":           email,
		"organization_id": organizationID,
		"role":            string(role),
		"type":            TokenTypeAccess,
		"exp":             expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     expiresAt,
		"type":    TokenTypeRefresh,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ValidateRefreshToken(tokenString string) (string, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return "", err
	}
	return stringClaim(token, "user_id", TokenTypeRefresh)
}

func (j *JWTService) GenerateCalendarState(userID string) (string, string, error) {
	nonce := uuid.NewString()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"nonce":   nonce,
		"type":    TokenTypeCalendarState,
		"exp":     time.Now().Add(calendarStateTTL).Unix(),
	})
	if err != nil {
		return "", "", err
	}
	return tokenString, nonce, nil
}

func (j *JWTService) ValidateCalendarState(state string) (string, string, error) {
	token, err := j.tokenAuth.Decode(state)
	if err != nil {
		return "", "", err
	}
	if err := jwt.Validate(token); err != nil {
		return "", "", err
	}
	userID, err := stringClaim(token, "user_id", TokenTypeCalendarState)
	if err != nil {
		return "", "", err
	}
	nonce, ok := token.Get("nonce")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	nonceStr, ok := nonce.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	return userID, nonceStr, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

func stringClaim(token jwt.Token, key string, wantType string) (string, error) {
	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return "", jwt.ErrInvalidJWT()
	}
	val, ok := token.Get(key)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return "", jwt.ErrInvalidJWT()
	}
	return s, nil
}
