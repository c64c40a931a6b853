package handlers

import (
	"net/http"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/utils"
	"golang.org/x/sync/errgroup"
)

// adminPageSize is the course page shown on the admin landing view
const adminPageSize = 8

// AdminDashboardView summarises users and courses for administrators
type AdminDashboardView struct {
	Session     SessionView        `json:"session"`
	Users       []models.User      `json:"users"`
	ActiveUsers int                `json:"active_users"`
	Courses     *models.CoursePage `json:"courses"`
}

// AdminDashboardHandler handles GET /admin
func AdminDashboardHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := AdminDashboardView{
			Session: NewSessionView(sessionOf(r)),
		}

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			users, err := deps.Users.List(ctx, "")
			view.Users = users
			return err
		})
		g.Go(func() error {
			courses, err := deps.Courses.List(ctx, 1, adminPageSize)
			view.Courses = courses
			return err
		})
		if err := g.Wait(); err != nil {
			respondError(deps, w, r, err)
			return
		}

		for _, u := range view.Users {
			if u.IsActive {
				view.ActiveUsers++
			}
		}
		writeOK(deps, w, r, view)
	}
}

// ListUsersHandler handles GET /admin/users?search=
func ListUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Users.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeOK(deps, w, r, users)
	}
}

// DisableUserHandler handles POST /admin/users/{id}/disable
func DisableUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Users.Disable(r.Context(), pathID(r)); err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeMessage(deps, w, r, "User disabled")
	}
}

// ResetPasswordHandler handles POST /admin/users/{id}/reset-password
func ResetPasswordHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Users.ResetPassword(r.Context(), pathID(r)); err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeMessage(deps, w, r, "Password reset requested")
	}
}

// UpdateCourseHandler handles PUT /admin/courses/{id}
func UpdateCourseHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update models.CourseUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}
		if err := utils.ValidateStruct(update); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		if err := deps.Courses.Update(r.Context(), pathID(r), update); err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeMessage(deps, w, r, "Course updated")
	}
}

// ArchiveCourseHandler handles POST /admin/courses/{id}/archive
func ArchiveCourseHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Courses.Archive(r.Context(), pathID(r)); err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeMessage(deps, w, r, "Course archived")
	}
}
