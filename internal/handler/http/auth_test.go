package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAuthService struct {
	auth.AuthService
	loggedOut  []string
	refreshed  []string
	changed    bool
	loginErr   error
	refreshErr error
	changeErr  error
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if f.loginErr != nil {
		return auth.TokenResponse{}, f.loginErr
	}
	return auth.TokenResponse{
		AccessToken:           "access-" + req.Email,
		AccessTokenExpiresIn:  1700000000,
		RefreshToken:          "refresh-" + req.Email,
		RefreshTokenExpiresIn: 1700086400,
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (auth.AccessTokenResponse, error) {
	f.refreshed = append(f.refreshed, refreshToken)
	if f.refreshErr != nil {
		return auth.AccessTokenResponse{}, f.refreshErr
	}
	return auth.AccessTokenResponse{AccessToken: "new-access", AccessTokenExpiresIn: 1700000000}, nil
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	f.changed = true
	return f.changeErr
}

func newAuthHandler(svc *fakeAuthService) AuthHandler {
	return NewAuthHandler(jwt.NewJWTService(handlerTestSecret, "1h", "24h", false), svc)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("sets refresh cookie and hides it from the body", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthService{})
		body := `{"email":"ana@acme.io","password":"secret123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		cookie := findCookie(rec, refreshTokenCookieName)
		require.NotNil(t, cookie)
		assert.Equal(t, "refresh-ana@acme.io", cookie.Value)
		assert.True(t, cookie.HttpOnly)

		data := decodeBody(t, rec)["data"].(map[string]any)
		assert.Equal(t, "access-ana@acme.io", data["access_token"])
		assert.NotContains(t, data, "refresh_token")
	})

	t.Run("malformed json", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()

		h.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"bad"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		h := newAuthHandler(&fakeAuthService{loginErr: auth.ErrInvalidCredentials})
		body := `{"email":"ana@acme.io","password":"nope"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, findCookie(rec, refreshTokenCookieName))
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("reads the cookie", func(t *testing.T) {
		svc := &fakeAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshTokenCookieName, Value: "from-cookie"})
		rec := httptest.NewRecorder()

		newAuthHandler(svc).RefreshToken(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []string{"from-cookie"}, svc.refreshed)
	})

	t.Run("falls back to the body", func(t *testing.T) {
		svc := &fakeAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBufferString(`{"refresh_token":"from-body"}`))
		rec := httptest.NewRecorder()

		newAuthHandler(svc).RefreshToken(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []string{"from-body"}, svc.refreshed)
	})

	t.Run("missing token", func(t *testing.T) {
		svc := &fakeAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		rec := httptest.NewRecorder()

		newAuthHandler(svc).RefreshToken(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, svc.refreshed)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc := &fakeAuthService{refreshErr: auth.ErrRefreshTokenRevoked}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: refreshTokenCookieName, Value: "old"})
		rec := httptest.NewRecorder()

		newAuthHandler(svc).RefreshToken(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookieName, Value: "tok"})
	rec := httptest.NewRecorder()

	newAuthHandler(svc).Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"tok"}, svc.loggedOut)
	cleared := findCookie(rec, refreshTokenCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	t.Run("clears the session cookie", func(t *testing.T) {
		svc := &fakeAuthService{}
		body := `{"current_password":"oldpass12","new_password":"newpass12","confirm_password":"newpass12"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newAuthHandler(svc).ChangePassword(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, svc.changed)
		require.NotNil(t, findCookie(rec, refreshTokenCookieName))
	})

	t.Run("mismatched confirmation never reaches the service", func(t *testing.T) {
		svc := &fakeAuthService{}
		body := `{"current_password":"oldpass12","new_password":"newpass12","confirm_password":"other123"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newAuthHandler(svc).ChangePassword(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, svc.changed)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc := &fakeAuthService{changeErr: auth.ErrWrongPassword}
		body := `{"current_password":"oldpass12","new_password":"newpass12","confirm_password":"newpass12"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", strings.NewReader(body))
		rec := httptest.NewRecorder()

		newAuthHandler(svc).ChangePassword(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
