package user

type Permission string

const (
	// Missions
	PermissionMissionCreate    Permission = "mission.create"
	PermissionMissionManageAll Permission = "mission.manage_all"

	// Reports
	PermissionReportView Permission = "report.view"

	// Organization members
	PermissionUserManage  Permission = "user.manage"
	PermissionGroupManage Permission = "group.manage"

	// Data ingestion
	PermissionImportRun    Permission = "import.run"
	PermissionCalendarSync Permission = "calendar.sync"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleExecutive: {
		PermissionMissionCreate,
		PermissionMissionManageAll,
		PermissionReportView,
		PermissionUserManage,
		PermissionGroupManage,
		PermissionImportRun,
		PermissionCalendarSync,
	},
	RoleManager: {
		PermissionMissionCreate,
		PermissionReportView,
		PermissionGroupManage,
		PermissionImportRun,
		PermissionCalendarSync,
	},
	RoleMember: {
		PermissionMissionCreate,
		PermissionCalendarSync,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
