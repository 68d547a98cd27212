package client

import "github.com/kazlaw/shule/core/user"

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// LandingPath maps a resolved role to its one canonical dashboard root.
// Total over the role enum; invoked once, right after a successful login,
// never during subsequent navigation.
func LandingPath(role user.Role) string {
	switch role {
	case user.RoleStudent:
		return "/student/dashboard"
	case user.RoleTeacher:
		return "/teacher/dashboard"
	case user.RoleAdmin:
		return "/admin/dashboard"
	case user.RoleSuperAdmin:
		return "/superadmin/dashboard"
	}
	return LoginPath
}
