package handlers

import (
	"net/http"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/services"
	"golang.org/x/sync/errgroup"
)

// CourseDetailView is a course with its assignments and materials
type CourseDetailView struct {
	Course      *models.Course      `json:"course"`
	Assignments []models.Assignment `json:"assignments"`
	Materials   []models.Material   `json:"materials"`
	Enrolled    bool                `json:"enrolled"`
}

// ListCoursesHandler handles GET /{role}/courses?page=&limit=
func ListCoursesHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page")
		if err != nil {
			respondError(deps, w, r, services.WrapError(services.ErrorTypeValidation, err.Error(), err))
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			respondError(deps, w, r, services.WrapError(services.ErrorTypeValidation, err.Error(), err))
			return
		}

		courses, err := deps.Courses.List(r.Context(), page, limit)
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		writeOK(deps, w, r, courses)
	}
}

// CourseDetailHandler handles GET /{role}/courses/{id}. The three backend
// reads run concurrently under the request context.
func CourseDetailHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		var view CourseDetailView

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			course, err := deps.Courses.Get(ctx, id)
			view.Course = course
			return err
		})
		g.Go(func() error {
			assignments, err := deps.Assignments.ListByCourse(ctx, id)
			view.Assignments = assignments
			return err
		})
		g.Go(func() error {
			materials, err := deps.Materials.ListByCourse(ctx, id)
			view.Materials = materials
			return err
		})
		if err := g.Wait(); err != nil {
			respondError(deps, w, r, err)
			return
		}

		if who := identity(r); who != nil {
			view.Enrolled = view.Course.HasStudent(models.ID(who.ID))
		}
		writeOK(deps, w, r, view)
	}
}
