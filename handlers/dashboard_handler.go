package handlers

import (
	"net/http"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/models"
)

// dashboardPageSize is the course page shown on a landing view
const dashboardPageSize = 8

// DashboardView is the landing view of teachers and students
type DashboardView struct {
	Session SessionView        `json:"session"`
	Courses *models.CoursePage `json:"courses"`
}

// DashboardHandler handles GET /teacher and GET /student. The backend
// scopes the course list to the caller.
func DashboardHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := deps.Courses.List(r.Context(), 1, dashboardPageSize)
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeOK(deps, w, r, DashboardView{
			Session: NewSessionView(sessionOf(r)),
			Courses: courses,
		})
	}
}
