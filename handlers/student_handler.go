package handlers

import (
	"net/http"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/models"
)

// AssignmentView is an assignment as seen by one student
type AssignmentView struct {
	Assignment *models.Assignment `json:"assignment"`
	Completed  bool               `json:"completed"`
}

// EnrollHandler handles POST /student/courses/{id}/enroll
func EnrollHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Courses.Enroll(r.Context(), pathID(r)); err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeMessage(deps, w, r, "Enrolled")
	}
}

// OptOutHandler handles POST /student/courses/{id}/optout
func OptOutHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Courses.OptOut(r.Context(), pathID(r)); err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeMessage(deps, w, r, "Left course")
	}
}

// AssignmentHandler handles GET /student/assignments/{id}
func AssignmentHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignment, err := deps.Assignments.Get(r.Context(), pathID(r))
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeOK(deps, w, r, AssignmentView{
			Assignment: assignment,
			Completed:  assignment.CompletedBy(models.ID(identity(r).ID)),
		})
	}
}

// CompleteAssignmentHandler handles POST /student/assignments/{id}/complete
func CompleteAssignmentHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignment, err := deps.Assignments.Complete(r.Context(), pathID(r))
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeOK(deps, w, r, AssignmentView{Assignment: assignment, Completed: true})
	}
}
