package handlers

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/guard"
	"github.com/upb/lms-dashboard/internal/observability"
	"github.com/upb/lms-dashboard/services"
	"github.com/upb/lms-dashboard/session"
	"github.com/upb/lms-dashboard/utils"
)

// LoginForm is the body of POST /login, as a form or as JSON. It shares
// its limits with the request sent to the backend.
type LoginForm = services.LoginRequest

// SessionView describes the current session to the dashboard
type SessionView struct {
	Status         string     `json:"status"`
	Authenticated  bool       `json:"authenticated"`
	ID             string     `json:"id,omitempty"`
	Role           string     `json:"role,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Home           string     `json:"home,omitempty"`
}

// NewSessionView renders snap
func NewSessionView(snap session.Snapshot) SessionView {
	view := SessionView{
		Status:        snap.Status.String(),
		Authenticated: snap.Authenticated(),
	}
	if snap.Identity != nil {
		view.ID = snap.Identity.ID
		view.Role = string(snap.Identity.Role)
		view.Subject = snap.Identity.Subject
		view.ProfilePicture = snap.Identity.ProfilePicture
		expires := snap.Identity.ExpiresAt.UTC()
		view.ExpiresAt = &expires
		view.Home = HomePath(snap.Identity.Role)
	}
	return view
}

// HomeHandler sends the user to their role's landing view, or to login
func HomeHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := deps.Sessions.Snapshot()
		decision := guard.Decide(snap)
		if decision == guard.Allow {
			_ = utils.WriteRedirect(w, HomePath(snap.Identity.Role), http.StatusFound)
			return
		}
		_ = utils.WriteDecision(w, decision)
	}
}

// LoginPageHandler handles GET /login. A signed-in user is sent home.
func LoginPageHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := deps.Sessions.Snapshot()
		if snap.Authenticated() {
			_ = utils.WriteRedirect(w, HomePath(snap.Identity.Role), http.StatusFound)
			return
		}
		writeOK(deps, w, r, NewSessionView(snap))
	}
}

// LoginHandler handles POST /login. Form submissions are redirected to the
// role's landing view; JSON callers receive the new session.
func LoginHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := observability.ForRequest(r.Context(), deps.Logger)

		jsonBody := isJSON(r)
		var form LoginForm
		if jsonBody {
			if err := decodeJSON(w, r, &form); err != nil {
				HandleValidationError(w, err, logger)
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				HandleValidationError(w, err, logger)
				return
			}
			form.Identifier = r.PostFormValue("identifier")
			form.Password = r.PostFormValue("password")
		}

		if err := utils.ValidateStruct(form); err != nil {
			HandleValidationError(w, err, logger)
			return
		}

		identity, err := deps.Sessions.Login(r.Context(), form.Identifier, form.Password)
		if err != nil {
			switch {
			// An unreachable backend is not a wrong password.
			case services.IsExternalError(err):
				respondError(deps, w, r, err)
			case errors.Is(err, session.ErrNotPersisted):
				respondError(deps, w, r, services.WrapInternal("login not saved", err))
			default:
				_ = utils.WriteUnauthorized(w, "Invalid credentials")
			}
			return
		}

		if !jsonBody {
			_ = utils.WriteRedirect(w, HomePath(identity.Role), http.StatusSeeOther)
			return
		}
		writeOK(deps, w, r, NewSessionView(session.Snapshot{Status: session.Ready, Identity: identity}))
	}
}

// LogoutHandler handles POST /logout
func LogoutHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Sessions.Logout(r.Context())
		_ = utils.WriteRedirect(w, utils.LoginPath, http.StatusSeeOther)
	}
}

// SessionHandler handles GET /session
func SessionHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOK(deps, w, r, NewSessionView(deps.Sessions.Snapshot()))
	}
}

// UnauthorizedHandler handles GET /unauthorized, where role mismatches land
func UnauthorizedHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := "You do not have access to that page"
		if snap := deps.Sessions.Snapshot(); snap.Authenticated() {
			msg += "; your dashboard is at " + HomePath(snap.Identity.Role)
		}
		_ = utils.WriteForbidden(w, msg)
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
