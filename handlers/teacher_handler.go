package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// maxUploadBytes caps material uploads held in memory before spilling to disk
const maxUploadBytes = 32 << 20

// AssignmentInput is the body of POST /teacher/courses/{id}/assignments.
// The course comes from the path and the teacher from the session.
type AssignmentInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Deadline    *models.Timestamp `json:"deadline,omitempty"`
}

// CreateAssignmentHandler handles POST /teacher/courses/{id}/assignments
func CreateAssignmentHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in AssignmentInput
		if err := decodeJSON(w, r, &in); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		created, err := deps.Assignments.Create(r.Context(), models.AssignmentCreate{
			Title:       in.Title,
			Description: in.Description,
			Deadline:    in.Deadline,
			TeacherID:   identity(r).ID,
			CourseID:    pathID(r),
		})
		if err != nil {
			respondError(deps, w, r, err)
			return
		}
		_ = utils.WriteCreated(w, created)
	}
}

// DeleteAssignmentHandler handles DELETE /teacher/assignments/{id}
func DeleteAssignmentHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Assignments.Delete(r.Context(), pathID(r)); err != nil {
			respondError(deps, w, r, err)
			return
		}
		utils.WriteNoContent(w)
	}
}

// UploadMaterialHandler handles POST /teacher/courses/{id}/materials. The
// multipart file is streamed on to the backend.
func UploadMaterialHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				_ = utils.WriteBadRequest(w, "Validation failed", map[string]interface{}{"file": "file is required"})
				return
			}
			HandleValidationError(w, err, deps.Logger)
			return
		}
		defer file.Close()

		material, err := deps.Materials.Create(r.Context(), models.MaterialCreate{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			CourseID:    pathID(r),
			FileName:    header.Filename,
		}, file)
		if err != nil {
			respondError(deps, w, r, err)
			return
		}

		deps.Logger.Info("material uploaded",
			zap.String("course_id", pathID(r)),
			zap.String("file", header.Filename),
			zap.Int64("size", header.Size))
		_ = utils.WriteCreated(w, material)
	}
}
