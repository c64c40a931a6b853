package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/models"
	"go.uber.org/zap"
)

// UserService wraps the backend's user management endpoints
type UserService struct {
	client *httpclient.Client
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(client *httpclient.Client, logger *zap.Logger) *UserService {
	return &UserService{client: client, logger: logger}
}

// List returns the users visible to the signed-in account, filtered by
// username when search is non-blank.
func (s *UserService) List(ctx context.Context, search string) ([]models.User, error) {
	query := url.Values{}
	if q := strings.TrimSpace(search); q != "" {
		query.Set("search", q)
	}

	var out []models.User
	if err := s.client.Get(ctx, "/users", query, &out); err != nil {
		return nil, translate(err, nil)
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

// Me returns the signed-in account
func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.client.Get(ctx, "/users/me", nil, &out); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &out, nil
}

// Disable toggles a user's active flag
func (s *UserService) Disable(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return translate(s.client.Post(ctx, "/users/"+url.PathEscape(id)+"/disable", nil, nil), ErrUserNotFound)
}

// ResetPassword asks the backend to reset a user's password
func (s *UserService) ResetPassword(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return translate(s.client.Post(ctx, "/users/"+url.PathEscape(id)+"/reset-password", nil, nil), ErrUserNotFound)
}
