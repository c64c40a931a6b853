package services

import (
	"context"
	"net/url"

	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// AssignmentService wraps the backend's assignment endpoints
type AssignmentService struct {
	client *httpclient.Client
	logger *zap.Logger
}

// NewAssignmentService creates an AssignmentService
func NewAssignmentService(client *httpclient.Client, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{client: client, logger: logger}
}

// ListByCourse returns the assignments of a course
func (s *AssignmentService) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	if err := requireID(courseID); err != nil {
		return nil, err
	}

	var out []models.Assignment
	if err := s.client.Get(ctx, "/courses/"+url.PathEscape(courseID)+"/assignments", nil, &out); err != nil {
		return nil, translate(err, ErrCourseNotFound)
	}
	if out == nil {
		out = []models.Assignment{}
	}
	return out, nil
}

// Get returns a single assignment
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var out models.Assignment
	if err := s.client.Get(ctx, "/assignments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, translate(err, ErrAssignmentNotFound)
	}
	return &out, nil
}

// Create adds an assignment to a course
func (s *AssignmentService) Create(ctx context.Context, in models.AssignmentCreate) (*models.Assignment, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, NewDomainError(ErrorTypeValidation, "invalid assignment", err).
			WithDetail("fields", utils.GetValidationFields(err))
	}

	var out models.Assignment
	if err := s.client.Post(ctx, "/assignments", in, &out); err != nil {
		return nil, translate(err, ErrCourseNotFound)
	}
	return &out, nil
}

// Complete marks an assignment as completed by the signed-in student
func (s *AssignmentService) Complete(ctx context.Context, id string) (*models.Assignment, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}

	var out models.Assignment
	if err := s.client.Patch(ctx, "/assignments/"+url.PathEscape(id)+"/complete", nil, &out); err != nil {
		return nil, translate(err, ErrAssignmentNotFound)
	}
	return &out, nil
}

// Delete removes an assignment
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return translate(s.client.Delete(ctx, "/assignments/"+url.PathEscape(id), nil), ErrAssignmentNotFound)
}
