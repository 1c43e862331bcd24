package auth

import (
	"context"
	"crypto/subtle"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/session"
)

// PasswordLength is the exact length of the shared admin password.
const PasswordLength = 6

// Service gates the admin area behind one shared password. It is a convenience lock for
// the shop's own staff, not account security: there are no users and no lockout.
type Service struct {
	password string
	sessions *session.Store
}

func New(password string, sessions *session.Store) *Service {
	return &Service{password: password, sessions: sessions}
}

// Login opens a session when password matches. Input that is not exactly
// PasswordLength characters is rejected as invalid without being compared.
func (s *Service) Login(ctx context.Context, password string, m session.Meta) (session.Session, error) {
	if utf8.RuneCountInString(password) != PasswordLength {
		return session.Session{}, apperr.Validation("password", "must have 6 characters")
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		logger.Log.Info("admin login rejected", zap.String("remote_ip", m.RemoteIP))
		return session.Session{}, apperr.ErrUnauthorized
	}

	sess, err := s.sessions.Create(ctx, m)
	if err != nil {
		return session.Session{}, err
	}

	logger.Log.Info("admin login", zap.String("remote_ip", m.RemoteIP))
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate returns the session for token or ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	sess, err := s.sessions.Find(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.ErrUnauthorized
	}
	return sess, nil
}
