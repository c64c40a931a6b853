package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// CourseService wraps the backend's course endpoints
type CourseService struct {
	client *httpclient.Client
	logger *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(client *httpclient.Client, logger *zap.Logger) *CourseService {
	return &CourseService{client: client, logger: logger}
}

// List returns one page of courses. page and limit are forwarded as given;
// zero leaves the backend default in place.
func (s *CourseService) List(ctx context.Context, page, limit int) (*models.CoursePage, error) {
	if page < 0 || limit < 0 {
		return nil, NewDomainError(ErrorTypeValidation, "page and limit must not be negative", nil)
	}

	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out models.CoursePage
	err := s.client.Get(ctx, "/courses", query, &out)
	if httpclient.StatusCode(err) == http.StatusNotFound {
		// The backend answers an empty page with 404.
		return &models.CoursePage{Courses: []models.Course{}}, nil
	}
	if err != nil {
		return nil, translate(err, nil)
	}
	return &out, nil
}

// Get returns a single course
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var out models.Course
	if err := s.client.Get(ctx, "/courses/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, translate(err, ErrCourseNotFound)
	}
	return &out, nil
}

// Enroll enrolls the signed-in student in a course
func (s *CourseService) Enroll(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return translate(s.client.Post(ctx, "/courses/"+url.PathEscape(id)+"/enroll", nil, nil), ErrCourseNotFound)
}

// OptOut removes the signed-in student from a course
func (s *CourseService) OptOut(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return translate(s.client.Post(ctx, "/courses/"+url.PathEscape(id)+"/optout", nil, nil), ErrCourseNotFound)
}

// Update replaces a course's editable fields
func (s *CourseService) Update(ctx context.Context, id string, update models.CourseUpdate) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := utils.ValidateStruct(&update); err != nil {
		return NewDomainError(ErrorTypeValidation, "invalid course update", err).
			WithDetail("fields", utils.GetValidationFields(err))
	}
	return translate(s.client.Put(ctx, "/courses/"+url.PathEscape(id), update, nil), ErrCourseNotFound)
}

// Archive marks a course as archived
func (s *CourseService) Archive(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	body := models.CourseArchive{Archived: true}
	return translate(s.client.Patch(ctx, "/courses/"+url.PathEscape(id)+"/archive", body, nil), ErrCourseNotFound)
}

func requireID(id string) error {
	if err := utils.ValidateRequired(id, "id"); err != nil {
		return NewDomainError(ErrorTypeValidation, ErrMissingID.Message, err)
	}
	return nil
}
