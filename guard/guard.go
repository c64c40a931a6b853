// Package guard decides whether the current session may enter a part of the
// dashboard.
package guard

import "github.com/upb/lms-dashboard/session"

// Decision is the outcome of an access check.
type Decision int

const (
	// Pending means the session is still being established; render a neutral
	// placeholder and decide later.
	Pending Decision = iota
	Allow
	RedirectLogin
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Decide evaluates snap against roles. An empty role list means
// "any authenticated user".
func Decide(snap session.Snapshot, roles ...session.Role) Decision {
	if snap.Status != session.Ready {
		return Pending
	}
	if snap.Identity == nil {
		return RedirectLogin
	}
	if len(roles) > 0 && !snap.Identity.HasRole(roles...) {
		return RedirectUnauthorized
	}
	return Allow
}

// Guard is one boundary in a route tree.
type Guard struct {
	Roles []session.Role
}

// Authenticated admits any signed-in user
func Authenticated() Guard {
	return Guard{}
}

// RequireRole admits signed-in users holding one of roles
func RequireRole(roles ...session.Role) Guard {
	return Guard{Roles: roles}
}

// Evaluate applies the guard to snap
func (g Guard) Evaluate(snap session.Snapshot) Decision {
	return Decide(snap, g.Roles...)
}

// Chain evaluates nested guards from the outermost inward and returns the
// first decision that is not Allow. The order is significant: an outer
// authentication guard must answer RedirectLogin before any inner role check
// can answer RedirectUnauthorized.
func Chain(snap session.Snapshot, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g.Evaluate(snap); d != Allow {
			return d
		}
	}
	return Allow
}
