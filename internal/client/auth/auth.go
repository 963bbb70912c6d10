// Package auth drives signup, login, logout and profile changes against the
// server and keeps the session store in step with the outcome.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/storefront/internal/client/api"
	"github.com/ikkim/storefront/internal/client/session"
	"github.com/ikkim/storefront/pkg/logger"
)

var (
	ErrPasswordMismatch = fmt.Errorf("%w: Password did not match", api.ErrValidation)
	ErrNotSignedIn      = fmt.Errorf("%w: not signed in", api.ErrAuth)
)

// Backend is the part of the API the auth flow needs.
type Backend interface {
	Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResult, error)
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*api.User, error)
	UpdateProfile(ctx context.Context, token, fullName string) (*api.User, error)
}

type SignupInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

type Service struct {
	backend  Backend
	sessions *session.Store
}

func NewService(backend Backend, sessions *session.Store) *Service {
	return &Service{backend: backend, sessions: sessions}
}

// Signup creates an account and signs in. Mismatched passwords fail before
// anything is sent.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*session.Session, error) {
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	result, err := s.backend.Signup(ctx, api.SignupRequest{
		FullName:        strings.TrimSpace(input.FullName),
		Email:           strings.TrimSpace(input.Email),
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result)
}

// Login signs in. On failure the current session is left as it was.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	result, err := s.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		logger.Debug("Login failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return s.establish(ctx, result)
}

func (s *Service) establish(ctx context.Context, result *api.AuthResult) (*session.Session, error) {
	// A caller that gave up must not find itself signed in.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess := session.Session{Token: result.Token, User: toSessionUser(result.User)}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	logger.Info("Signed in", map[string]interface{}{
		"user_id": sess.User.ID,
		"role":    sess.User.Role,
	})
	return &sess, nil
}

// Logout asks the server to revoke the token and clears the local session
// whatever the server says.
func (s *Service) Logout(ctx context.Context) error {
	if sess, ok := s.sessions.Current(); ok {
		if err := s.backend.Logout(ctx, sess.Token); err != nil {
			logger.Warn("Server logout failed, clearing local session anyway", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return s.sessions.Clear(context.WithoutCancel(ctx))
}

// Refresh reloads the signed-in account from the server, picking up role or
// name changes made elsewhere. A rejected token signs the shopper out.
func (s *Service) Refresh(ctx context.Context) (*session.Session, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, ErrNotSignedIn
	}

	user, err := s.backend.Me(ctx, sess.Token)
	if err != nil {
		return nil, s.Expire(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess.User = toSessionUser(*user)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// UpdateProfile changes the display name and stores the updated user.
func (s *Service) UpdateProfile(ctx context.Context, fullName string) (*session.Session, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil, ErrNotSignedIn
	}

	user, err := s.backend.UpdateProfile(ctx, sess.Token, strings.TrimSpace(fullName))
	if err != nil {
		return nil, s.Expire(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess.User = toSessionUser(*user)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Expire clears the session when err reports rejected credentials, which is
// how an expired token surfaces. err is returned unchanged.
func (s *Service) Expire(ctx context.Context, err error) error {
	if !errors.Is(err, api.ErrAuth) {
		return err
	}
	if _, ok := s.sessions.Current(); !ok {
		return err
	}
	logger.Info("Session rejected by server, signing out")
	if clearErr := s.sessions.Clear(context.WithoutCancel(ctx)); clearErr != nil {
		logger.Error("Failed to clear rejected session", clearErr)
	}
	return err
}

func toSessionUser(u api.User) session.User {
	return session.User{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
