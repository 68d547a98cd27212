package client

import (
	"strings"

	"github.com/kazlaw/shule/core/user"
)

// Decision is the outcome of a route-guard check. The surrounding UI layer
// interprets it; the guard itself performs no navigation.
type Decision int

const (
	Admit Decision = iota
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Admit:
		return "admit"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUnauthorized:
		return "redirect-unauthorized"
	}
	return "unknown"
}

// RouteTable maps each role-scoped path prefix to its required role set.
var RouteTable = map[string][]user.Role{
	"/student":    {user.RoleStudent},
	"/teacher":    {user.RoleTeacher},
	"/admin":      {user.RoleAdmin},
	"/superadmin": {user.RoleSuperAdmin},
}

// Guard decides whether a cached session may enter a subtree requiring one of
// `required`. Pure function of its inputs: no network call, no mutation. It is
// re-evaluated on every navigation so a cleared cache takes effect immediately.
// An absent session redirects to login; a known session with the wrong role
// redirects to the unauthorized surface.
func Guard(s Session, ok bool, required []user.Role) Decision {
	if !ok {
		return RedirectLogin
	}
	for _, role := range required {
		if s.Role == role {
			return Admit
		}
	}
	return RedirectUnauthorized
}

// GuardPath guards a navigation to `path` against the route table.
// Paths outside any role-scoped subtree are admitted.
func GuardPath(s Session, ok bool, path string) Decision {
	for prefix, roles := range RouteTable {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return Guard(s, ok, roles)
		}
	}
	return Admit
}
