// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package guard

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/mediscan/gateway/internal/session"
)

// routeRoles is the single authorization table for the gateway.
//
// One mount pattern, one explicit list of roles allowed through. Adding a
// route means adding a row here; there are no per-handler role checks hidden
// elsewhere, with one exception: attendance creation tightens to the
// professional role inside its own router, since the collection is readable
// by everyone.
//
// Roles are always spelled out in full. "Any authenticated" is written as
// all three roles so a future fourth role is excluded until someone decides
// otherwise.
var routeRoles = map[string][]session.Role{
	"/api/dashboard": {
		session.RoleGeneralAdministrator,
		session.RoleAdministrator,
		session.RoleProfessional,
	},
	"/api/profile": {
		session.RoleGeneralAdministrator,
		session.RoleAdministrator,
		session.RoleProfessional,
	},
	"/api/attendances": {
		session.RoleGeneralAdministrator,
		session.RoleAdministrator,
		session.RoleProfessional,
	},
	"/api/users": {
		session.RoleGeneralAdministrator,
		session.RoleAdministrator,
	},
	"/api/health-units": {
		session.RoleGeneralAdministrator,
		session.RoleAdministrator,
	},
	"/api/statistics": {
		session.RoleGeneralAdministrator,
		session.RoleAdministrator,
	},
	"/api/subscriptions": {
		session.RoleGeneralAdministrator,
	},
	"/api/predictions": {
		session.RoleProfessional,
	},
}

// RolesFor returns the roles allowed on a mount pattern, and whether the
// pattern is known to the table at all.
func RolesFor(pattern string) ([]session.Role, bool) {
	roles, ok := routeRoles[pattern]
	return roles, ok
}

// Patterns lists every mount pattern in the table, for exhaustiveness checks.
func Patterns() []string {
	patterns := make([]string, 0, len(routeRoles))
	for pattern := range routeRoles {
		patterns = append(patterns, pattern)
	}
	return patterns
}

// AllowedPatterns returns the mount patterns a role may access, sorted, so
// the SPA can ask the gateway which modules to show instead of duplicating
// the table client-side.
func AllowedPatterns(role session.Role) []string {
	var allowed []string
	for pattern, roles := range routeRoles {
		if slices.Contains(roles, role) {
			allowed = append(allowed, pattern)
		}
	}
	slices.Sort(allowed)
	return allowed
}

// ForRoute builds the role middleware for a mount pattern.
//
// A pattern missing from the table is a wiring bug, and the process refuses
// to start rather than serve the route unguarded.
func (guard *Guard) ForRoute(pattern string) func(http.Handler) http.Handler {
	roles, ok := RolesFor(pattern)
	if !ok {
		panic(fmt.Sprintf("guard: route %q has no entry in the authorization table", pattern))
	}
	return guard.RequireRoles(roles...)
}
