package auth

import "github.com/spec-kit/attendance-service/internal/domain"

// Action names a permission-checked operation. Every handler gate consults
// the single policy table below instead of carrying its own role checks.
type Action string

const (
	ActionRecordAttendance Action = "attendance.record"
	ActionDeleteAttendance Action = "attendance.delete"
	ActionGenerateReports  Action = "reports.generate"
	ActionExportReports    Action = "reports.export"
	ActionManageEmployees  Action = "employees.manage"
	ActionViewDashboard    Action = "dashboard.view"
	ActionManageUsers      Action = "users.manage"
)

// policy maps each action to the minimum role allowed to perform it.
// The role hierarchy (employee < manager < admin < super_admin) means
// admin and super_admin implicitly clear the manager-gated report actions.
var policy = map[Action]domain.Role{
	ActionRecordAttendance: domain.RoleEmployee,
	ActionDeleteAttendance: domain.RoleEmployee,
	ActionGenerateReports:  domain.RoleManager,
	ActionExportReports:    domain.RoleManager,
	ActionManageEmployees:  domain.RoleEmployee,
	ActionViewDashboard:    domain.RoleEmployee,
	ActionManageUsers:      domain.RoleAdmin,
}

// Allows decides whether a role may perform an action. Unknown actions and
// unknown roles are denied.
func Allows(role domain.Role, action Action) bool {
	min, ok := policy[action]
	if !ok {
		return false
	}
	return role.AtLeast(min)
}
