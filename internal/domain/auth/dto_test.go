package auth

import (
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "ceo@example.com", Password: "hunter22"}
	assert.NoError(t, req.Validate())

	req = LoginRequest{Email: "not-an-email"}
	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestChangePasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    ChangePasswordRequest
		fields []string
	}{
		{"valid", ChangePasswordRequest{"old-pass", "new-password", "new-password"}, nil},
		{"too short", ChangePasswordRequest{"old-pass", "short", "short"}, []string{"new_password"}},
		{"same as current", ChangePasswordRequest{"same-pass1", "same-pass1", "same-pass1"}, []string{"new_password"}},
		{"mismatch", ChangePasswordRequest{"old-pass", "new-password", "other-password"}, []string{"confirm_password"}},
		{"empty", ChangePasswordRequest{}, []string{"current_password", "new_password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			var got []string
			for _, e := range verrs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}
