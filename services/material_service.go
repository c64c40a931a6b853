package services

import (
	"context"
	"io"
	"net/url"

	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// MaterialService wraps the backend's study material endpoints
type MaterialService struct {
	client *httpclient.Client
	logger *zap.Logger
}

// NewMaterialService creates a MaterialService
func NewMaterialService(client *httpclient.Client, logger *zap.Logger) *MaterialService {
	return &MaterialService{client: client, logger: logger}
}

// ListByCourse returns the materials of a course
func (s *MaterialService) ListByCourse(ctx context.Context, courseID string) ([]models.Material, error) {
	if err := requireID(courseID); err != nil {
		return nil, err
	}

	var out []models.Material
	if err := s.client.Get(ctx, "/materials/"+url.PathEscape(courseID), nil, &out); err != nil {
		return nil, translate(err, ErrCourseNotFound)
	}
	if out == nil {
		out = []models.Material{}
	}
	return out, nil
}

// Create uploads a material file to a course
func (s *MaterialService) Create(ctx context.Context, in models.MaterialCreate, file io.Reader) (*models.Material, error) {
	if err := utils.ValidateStruct(&in); err != nil {
		return nil, NewDomainError(ErrorTypeValidation, "invalid material", err).
			WithDetail("fields", utils.GetValidationFields(err))
	}

	fields := map[string]string{
		"title":     in.Title,
		"course_id": in.CourseID,
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}

	var out models.Material
	if err := s.client.Upload(ctx, "/materials", fields, "file", in.FileName, file, &out); err != nil {
		return nil, translate(err, ErrCourseNotFound)
	}
	return &out, nil
}
