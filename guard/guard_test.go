package guard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/upb/lms-dashboard/session"
)

func ready(role session.Role) session.Snapshot {
	return session.Snapshot{
		Status:   session.Ready,
		Identity: &session.Identity{ID: "1", Role: role, Subject: "u1"},
	}
}

func TestDecide(t *testing.T) {
	signedOut := session.Snapshot{Status: session.Ready}
	initializing := session.Snapshot{Status: session.Initializing}

	tests := []struct {
		name  string
		snap  session.Snapshot
		roles []session.Role
		want  Decision
	}{
		{name: "initializing defers", snap: initializing, want: Pending},
		{name: "initializing defers role check", snap: initializing, roles: []session.Role{session.RoleAdmin}, want: Pending},
		{name: "signed out", snap: signedOut, want: RedirectLogin},
		{name: "signed out with roles", snap: signedOut, roles: []session.Role{session.RoleStudent}, want: RedirectLogin},
		{name: "authenticated only", snap: ready(session.RoleStudent), want: Allow},
		{name: "matching role", snap: ready(session.RoleTeacher), roles: []session.Role{session.RoleTeacher}, want: Allow},
		{name: "one of several roles", snap: ready(session.RoleTeacher), roles: []session.Role{session.RoleAdmin, session.RoleTeacher}, want: Allow},
		{name: "student on admin path", snap: ready(session.RoleStudent), roles: []session.Role{session.RoleAdmin}, want: RedirectUnauthorized},
		{name: "unknown role", snap: ready("janitor"), roles: []session.Role{session.RoleAdmin}, want: RedirectUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.snap, tt.roles...))
		})
	}
}

// Exhaustive check over every role set drawn from the known roles.
func TestDecide_AllRoleSets(t *testing.T) {
	roles := append([]session.Role{"other"}, session.Roles...)

	var sets [][]session.Role
	for mask := 0; mask < 1<<len(roles); mask++ {
		var set []session.Role
		for i, r := range roles {
			if mask&(1<<i) != 0 {
				set = append(set, r)
			}
		}
		sets = append(sets, set)
	}

	for _, set := range sets {
		for _, role := range roles {
			t.Run(fmt.Sprintf("%s in %v", role, set), func(t *testing.T) {
				got := Decide(ready(role), set...)

				member := false
				for _, r := range set {
					if r == role {
						member = true
					}
				}
				if len(set) == 0 || member {
					assert.Equal(t, Allow, got)
				} else {
					assert.Equal(t, RedirectUnauthorized, got)
				}
			})
		}

		assert.Equal(t, RedirectLogin, Decide(session.Snapshot{Status: session.Ready}, set...))
	}
}

func TestChain(t *testing.T) {
	adminArea := []Guard{Authenticated(), RequireRole(session.RoleAdmin)}

	assert.Equal(t, Pending, Chain(session.Snapshot{}, adminArea...))
	assert.Equal(t, RedirectLogin, Chain(session.Snapshot{Status: session.Ready}, adminArea...))
	assert.Equal(t, RedirectUnauthorized, Chain(ready(session.RoleStudent), adminArea...))
	assert.Equal(t, Allow, Chain(ready(session.RoleAdmin), adminArea...))
	assert.Equal(t, Allow, Chain(ready(session.RoleStudent)))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect_login", RedirectLogin.String())
	assert.Equal(t, "redirect_unauthorized", RedirectUnauthorized.String())
}
