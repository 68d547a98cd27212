package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kazlaw/shule/client"
	"github.com/kazlaw/shule/core/user"
)

func TestLandingPath(t *testing.T) {
	tests := []struct {
		role user.Role
		want string
	}{
		{user.RoleStudent, "/student/dashboard"},
		{user.RoleTeacher, "/teacher/dashboard"},
		{user.RoleAdmin, "/admin/dashboard"},
		{user.RoleSuperAdmin, "/superadmin/dashboard"},
		{user.Role("principal"), client.LoginPath},
		{user.Role(""), client.LoginPath},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, client.LandingPath(tt.role))
		})
	}
}

// Every role's landing path sits inside that role's own guarded subtree.
func TestLandingPath_isAdmittedByGuard(t *testing.T) {
	for _, role := range user.AllRoles {
		s := client.Session{ID: "abc", Role: role, Token: "t"}
		path := client.LandingPath(role)
		assert.Equal(t, client.Admit, client.GuardPath(s, true, path), "role %s at %s", role, path)
	}
}
