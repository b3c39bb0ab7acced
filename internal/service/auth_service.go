package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/blog-cache-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthService exchanges admin credentials for the remote token and hands
// the composition layer an opaque session id in return.
// One admin session exists at a time; a new login replaces it.
type AuthService struct {
	api      AuthAPI
	articles *ArticleStore
	log      zerolog.Logger

	mu      sync.Mutex
	session string
}

// NewAuthService creates an AuthService storing tokens in articles
func NewAuthService(api AuthAPI, articles *ArticleStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		articles: articles,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Login obtains a token, stores it in the article store and returns a new session id
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	var errs validation.Errors
	if strings.TrimSpace(username) == "" {
		errs = append(errs, validation.ValidationError{Field: "username", Message: "username is required"})
	}
	if password == "" {
		errs = append(errs, validation.ValidationError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return "", errs
	}

	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("Login failed")
		return "", err
	}

	session := uuid.NewString()

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.articles.SetCredential(token)

	s.log.Info().Str("username", username).Msg("Admin logged in")
	return session, nil
}

// Logout drops the session and the stored token
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.session = ""
	s.mu.Unlock()
	s.articles.ClearCredential()

	s.log.Info().Msg("Admin logged out")
}

// ValidSession reports whether id is the current session
func (s *AuthService) ValidSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == "" || id == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.session), []byte(id)) == 1
}
