package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/handlers"
	"github.com/upb/lms-dashboard/middleware"
	"github.com/upb/lms-dashboard/session"
	"github.com/upb/lms-dashboard/utils"
)

// SetupRoutes configures all dashboard routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.TrackNavigation)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	// Public entry points
	r.Get("/", handlers.HomeHandler(deps))
	r.Get(middleware.LoginPath, handlers.LoginPageHandler(deps))
	r.Post(middleware.LoginPath, handlers.LoginHandler(deps))
	r.Post("/logout", handlers.LogoutHandler(deps))
	r.Get("/session", handlers.SessionHandler(deps))
	r.Get(middleware.UnauthorizedPath, handlers.UnauthorizedHandler(deps))

	guards := deps.GuardMiddleware

	// Any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(guards.RequireAuth)
		r.Get("/profile", handlers.ProfileHandler(deps))
	})

	// Administrators
	r.Route("/admin", func(r chi.Router) {
		r.Use(guards.RequireAuth)
		r.Use(guards.RequireRole(session.RoleAdmin))
		r.Get("/", handlers.AdminDashboardHandler(deps))
		r.Get("/users", handlers.ListUsersHandler(deps))
		r.Post("/users/{id}/disable", handlers.DisableUserHandler(deps))
		r.Post("/users/{id}/reset-password", handlers.ResetPasswordHandler(deps))
		r.Get("/courses", handlers.ListCoursesHandler(deps))
		r.Get("/courses/{id}", handlers.CourseDetailHandler(deps))
		r.Put("/courses/{id}", handlers.UpdateCourseHandler(deps))
		r.Post("/courses/{id}/archive", handlers.ArchiveCourseHandler(deps))
	})

	// Teachers
	r.Route("/teacher", func(r chi.Router) {
		r.Use(guards.RequireAuth)
		r.Use(guards.RequireRole(session.RoleTeacher))
		r.Get("/", handlers.DashboardHandler(deps))
		r.Get("/courses", handlers.ListCoursesHandler(deps))
		r.Get("/courses/{id}", handlers.CourseDetailHandler(deps))
		r.Post("/courses/{id}/assignments", handlers.CreateAssignmentHandler(deps))
		r.Post("/courses/{id}/materials", handlers.UploadMaterialHandler(deps))
		r.Delete("/assignments/{id}", handlers.DeleteAssignmentHandler(deps))
	})

	// Students
	r.Route("/student", func(r chi.Router) {
		r.Use(guards.RequireAuth)
		r.Use(guards.RequireRole(session.RoleStudent))
		r.Get("/", handlers.DashboardHandler(deps))
		r.Get("/courses", handlers.ListCoursesHandler(deps))
		r.Get("/courses/{id}", handlers.CourseDetailHandler(deps))
		r.Post("/courses/{id}/enroll", handlers.EnrollHandler(deps))
		r.Post("/courses/{id}/optout", handlers.OptOutHandler(deps))
		r.Get("/assignments/{id}", handlers.AssignmentHandler(deps))
		r.Post("/assignments/{id}/complete", handlers.CompleteAssignmentHandler(deps))
	})

	// Unknown paths fall back to the login entry point
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteRedirect(w, utils.LoginPath, http.StatusFound)
	})

	return r
}
