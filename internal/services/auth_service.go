// internal/services/auth_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/session"
	"github.com/dravik/licensing-console/internal/utils"
)

type AuthService struct {
	backend    Backend
	sessions   *session.Manager
	workspaces *Workspaces
}

func NewAuthService(backend Backend, sessions *session.Manager, workspaces *Workspaces) *AuthService {
	return &AuthService{
		backend:    backend,
		sessions:   sessions,
		workspaces: workspaces,
	}
}

// Current returns the workspace of the active session, or nil when nobody
// is signed in.
func (s *AuthService) Current() *Workspace {
	sess := s.sessions.Current()
	if sess == nil {
		return nil
	}
	return s.workspaces.For(sess)
}

func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*Workspace, error) {
	// Validate request
	if err := utils.ValidateStruct(&creds); err != nil {
		return nil, validationError(i18n.M(i18n.KeyAuthEnterWallet), utils.GetValidationErrors(err))
	}

	res, err := s.backend.Login(ctx, creds)
	if err != nil {
		logrus.WithError(err).WithField("wallet", creds.WalletAddress).Warn("Login failed")
		return nil, upstreamError(i18n.M(i18n.KeyAuthLoginFailed, api.MessageOf(err)), err)
	}

	ws, err := s.begin(res.Token)
	if err != nil {
		return nil, err
	}
	logrus.WithField("wallet", creds.WalletAddress).Info("User logged in")
	return ws, nil
}

func (s *AuthService) Signup(ctx context.Context, req models.Signup) (*Workspace, error) {
	if err := utils.ValidateStruct(&req); err != nil {
		return nil, validationError(i18n.M(i18n.KeyAuthFillAllFields), utils.GetValidationErrors(err))
	}

	res, err := s.backend.Signup(ctx, req)
	if err != nil {
		logrus.WithError(err).WithField("email", req.Email).Warn("Signup failed")
		return nil, upstreamError(i18n.M(i18n.KeyAuthSignupFailed, api.MessageOf(err)), err)
	}

	ws, err := s.begin(res.Token)
	if err != nil {
		return nil, err
	}
	logrus.WithField("wallet", req.WalletAddress).Info("User signed up")
	return ws, nil
}

// Logout clears the credential and closes the session's pages.
func (s *AuthService) Logout() error {
	s.workspaces.Close()
	if err := s.sessions.End(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logrus.Info("User logged out")
	return nil
}

// Profile returns the signed-in user's profile.
func (s *AuthService) Profile(ctx context.Context, ws *Workspace) (*models.User, error) {
	user, err := s.backend.Me(ctx, ws.Token())
	if err != nil {
		return nil, backendError(i18n.M(i18n.KeyLoadFailed), err)
	}
	return user, nil
}

func (s *AuthService) begin(token string) (*Workspace, error) {
	sess, err := s.sessions.Begin(token)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return s.workspaces.For(sess), nil
}
