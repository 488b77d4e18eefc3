// Package guard maps the current credential onto allowed navigation targets
// and visible affordances. It is the single authorization boundary on the
// client, and a UX convenience only: every privileged operation is re-checked
// server-side.
package guard

import (
	"pro_market/internal/core"
)

// ResolveLandingRoute picks the view a session lands on. An authenticated
// credential with an unrecognized role falls open to the neutral public home,
// never to a privileged page.
func ResolveLandingRoute(cred core.Credential) core.Route {
	if !cred.Authenticated() {
		return core.RouteLogin
	}
	switch cred.Role {
	case core.RoleAdmin:
		return core.RouteAdmin
	case core.RolePro:
		return core.RouteProHome
	case core.RoleClient:
		return core.RouteClientHome
	default:
		return core.RouteHome
	}
}

// CanViewAdminControls gates rendering of the admin console
func CanViewAdminControls(cred core.Credential) bool {
	return cred.Authenticated() && cred.Role == core.RoleAdmin
}

// CanManageBookings gates the professional workspace (status transitions)
func CanManageBookings(cred core.Credential) bool {
	return cred.Authenticated() && cred.Role == core.RolePro
}

// CanHire gates the client marketplace actions
func CanHire(cred core.Credential) bool {
	return cred.Authenticated() && cred.Role == core.RoleClient
}

// CanViewAnalytics gates the analytics dashboard (admins and pros)
func CanViewAnalytics(cred core.Credential) bool {
	return cred.Authenticated() && (cred.Role == core.RoleAdmin || cred.Role == core.RolePro)
}
