package user

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/mission-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteUserRequest_Validate(t *testing.T) {
	t.Run("defaults role to member", func(t *testing.T) {
		req := InviteUserRequest{Email: "sato@example.com", Name: "Sato"}
		require.NoError(t, req.Validate())
		assert.Equal(t, string(RoleMember), req.Role)
	})

	t.Run("collects every field error", func(t *testing.T) {
		req := InviteUserRequest{Email: "bad", Role: "owner"}
		err := req.Validate()

		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := verrs.ToMap()
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "role")
	})
}

func TestUpdateRoleRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateRoleRequest{Role: "manager"}).Validate())
	assert.Error(t, (&UpdateRoleRequest{Role: "admin"}).Validate())
}

func TestSetActiveRequest_Validate(t *testing.T) {
	active := false
	assert.NoError(t, (&SetActiveRequest{IsActive: &active}).Validate())
	assert.Error(t, (&SetActiveRequest{}).Validate())
}

func TestHasPermission_DTO(t *testing.T) {
	assert.True(t, HasPermission(RoleExecutive, PermissionUserManage))
	assert.False(t, HasPermission(RoleManager, PermissionUserManage))
	assert.True(t, HasPermission(RoleManager, PermissionReportView))
	assert.False(t, HasPermission(RoleMember, PermissionReportView))
	assert.True(t, HasPermission(RoleMember, PermissionMissionCreate))
	assert.False(t, HasPermission(Role("ghost"), PermissionMissionCreate))
}
