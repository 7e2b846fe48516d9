package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/directory-api/internal/models"
	"github.com/yukikurage/directory-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService verifies credentials, issues session tokens and records logins.
type AuthService struct {
	personRepo repository.PersonRepository
	loginRepo  repository.LoginEventRepository
	tokens     *TokenService
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(personRepo repository.PersonRepository, loginRepo repository.LoginEventRepository, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		personRepo: personRepo,
		loginRepo:  loginRepo,
		tokens:     tokens,
		logger:     logger,
		now:        time.Now,
	}
}

// Session is the credential handed out by a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal *Principal
}

// Authenticate checks the credentials and, on success, issues a session
// token and appends a login event.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	person, err := s.personRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("login for unknown username", zap.String("username", username))
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}

	if !CheckPassword(person.PasswordHash, password) {
		s.logger.Debug("login with wrong password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	token, principal, err := s.tokens.Issue(person.Name, person.Username)
	if err != nil {
		return nil, err
	}

	event := &models.LoginEvent{
		Username:   person.Username,
		OccurredAt: s.now().UTC(),
	}
	if err := s.loginRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	s.logger.Info("person logged in", zap.String("username", person.Username))

	return &Session{
		Token:     token,
		ExpiresAt: principal.ExpiresAt,
		Principal: principal,
	}, nil
}

// Verify resolves a bearer token to its principal.
func (s *AuthService) Verify(ctx context.Context, token string) (*Principal, error) {
	return s.tokens.Verify(ctx, token)
}

// Logout revokes the principal's token.
func (s *AuthService) Logout(ctx context.Context, principal *Principal) error {
	if err := s.tokens.Revoke(ctx, principal); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
