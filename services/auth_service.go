package services

import (
	"context"

	"github.com/upb/lms-dashboard/httpclient"
	"github.com/upb/lms-dashboard/models"
	"github.com/upb/lms-dashboard/session"
	"github.com/upb/lms-dashboard/utils"
	"go.uber.org/zap"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Password   string `json:"password" validate:"required,max=1024"`
}

// TokenResponse is the backend's answer to a successful login
type TokenResponse struct {
	AccessToken    string    `json:"access_token" validate:"required"`
	TokenType      string    `json:"token_type"`
	Role           string    `json:"role" validate:"required,oneof=admin teacher student"`
	ID             models.ID `json:"id" validate:"required"`
	ProfilePicture *string   `json:"profile_picture"`
}

// AuthService talks to the backend's login and logout endpoints. It
// implements session.Authenticator.
type AuthService struct {
	login  *httpclient.Client
	api    *httpclient.Client
	logger *zap.Logger
}

var _ session.Authenticator = (*AuthService)(nil)

// NewAuthService creates an AuthService. loginClient must not carry the
// stored credential nor react to 401: a rejected login is not a rejected
// session. apiClient is the authenticated client used for logout.
func NewAuthService(loginClient, apiClient *httpclient.Client, logger *zap.Logger) *AuthService {
	return &AuthService{
		login:  loginClient,
		api:    apiClient,
		logger: logger,
	}
}

// Login exchanges an identifier and password for a credential
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*session.LoginResult, error) {
	req := LoginRequest{Identifier: identifier, Password: password}
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, NewDomainError(ErrorTypeValidation, "identifier and password are required", err)
	}

	var resp TokenResponse
	if err := s.login.Post(ctx, "/login", req, &resp); err != nil {
		if httpclient.StatusCode(err) != 0 {
			return nil, NewDomainError(ErrorTypeUnauthorized, ErrInvalidCredentials.Message, err)
		}
		return nil, translate(err, nil)
	}

	if err := utils.ValidateStruct(&resp); err != nil {
		s.logger.Warn("login response failed validation", zap.Error(err))
		return nil, NewDomainError(ErrorTypeExternal, ErrBadBackendResponse.Message, err)
	}

	result := &session.LoginResult{
		AccessToken: resp.AccessToken,
		Role:        session.Role(resp.Role),
		ID:          resp.ID.String(),
	}
	if resp.ProfilePicture != nil {
		result.ProfilePicture = *resp.ProfilePicture
	}
	return result, nil
}

// Logout tells the backend the current credential is no longer in use
func (s *AuthService) Logout(ctx context.Context) error {
	return translate(s.api.Post(ctx, "/logout", nil, nil), nil)
}
