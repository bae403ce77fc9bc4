package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/auth/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("please fill all fields")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

// Service handles account creation, credential checks and token issue.
type Service struct {
	users         *UserStore
	tokens        *jwt.Manager
	adminPassword string
	logger        zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig   jwt.TokenConfig
	AdminPassword string
}

// NewService creates an authentication service.
func NewService(users *UserStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:         users,
		tokens:        jwt.NewManager(opts.TokenConfig),
		adminPassword: opts.AdminPassword,
		logger:        logger.With().Str("component", "auth").Logger(),
	}
}

// Signup creates an account and returns an access token for it.
func (s *Service) Signup(username, password, confirm string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrMissingFields
	}
	if password != confirm {
		return "", ErrPasswordMismatch
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := s.users.Create(User{Username: username, PasswordHash: hash}); err != nil {
		return "", err
	}
	s.logger.Info().Str("username", username).Msg("account created")
	return s.tokens.Generate(username, false)
}

// Login verifies credentials and returns an access token.
func (s *Service) Login(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(username, false)
}

// AdminLogin checks the configured admin password and returns a token
// carrying the admin claim.
func (s *Service) AdminLogin(password string) (string, error) {
	if s.adminPassword == "" {
		return "", errors.New("admin access is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate("admin", true)
}

// ValidateToken parses and verifies an access token.
func (s *Service) ValidateToken(token string) (*jwt.Claims, error) {
	return s.tokens.Validate(token)
}

// TokenTTLSeconds reports how long issued tokens live.
func (s *Service) TokenTTLSeconds() int {
	return s.tokens.TTLSeconds()
}
