package handlers

import (
	"net/http"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/models"
)

// ProfileView pairs the session with the backend's user record
type ProfileView struct {
	Session SessionView  `json:"session"`
	User    *models.User `json:"user"`
}

// ProfileHandler handles GET /profile
func ProfileHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := deps.Users.Me(r.Context())
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeOK(deps, w, r, ProfileView{
			Session: NewSessionView(sessionOf(r)),
			User:    user,
		})
	}
}
