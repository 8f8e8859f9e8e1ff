package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/logger"
	"restaurant-storefront/internal/models"
)

// Store is the persistence boundary for users and sessions.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session, userID *int64) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service manages registration, login and session resolution.
type Service struct {
	store      Store
	cfg        *config.Config
	logger     *logger.Logger
	sessionTTL time.Duration
}

// NewService creates a new auth service.
func NewService(store Store, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		cfg:        cfg,
		logger:     log,
		sessionTTL: time.Duration(cfg.SessionTTLHoursOrDefault()) * time.Hour,
	}
}

// Register creates a customer account and starts a session for it. Emails
// listed in the auth config become admins; there is no promotion flow later.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, &models.ValidationError{Fields: missing}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleCustomer
	if s.cfg.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

// Login verifies credentials and starts a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Logout removes the session unconditionally.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// ResolveSession turns a cookie token into a session. Missing, unknown or
// expired tokens resolve to an anonymous session rather than an error.
func (s *Service) ResolveSession(ctx context.Context, token string) *models.Session {
	if token == "" {
		return &models.Session{}
	}

	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("session_lookup_failed", "Failed to resolve session", "", err, nil)
		}
		return &models.Session{}
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, token)
		return &models.Session{}
	}

	return session
}

// StartGuestSession creates an anonymous session so a guest can own a cart.
func (s *Service) StartGuestSession(ctx context.Context) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session, nil); err != nil {
		return nil, fmt.Errorf("failed to create guest session: %w", err)
	}
	return session, nil
}

func (s *Service) startSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		User:      user,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session, &user.ID); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}
