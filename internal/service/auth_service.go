package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/streamline-erp/ticket-service/internal/auth"
	"github.com/streamline-erp/ticket-service/internal/config"
	"github.com/streamline-erp/ticket-service/internal/domain"
	"github.com/streamline-erp/ticket-service/internal/repository"
	apperrors "github.com/streamline-erp/ticket-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the JWT manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterUser creates a new account.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	if in.Email == "" || in.FirstName == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("firstName, email, password required", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		return nil, apperrors.NewValidationError("password too short", map[string]any{"minLength": auth.MinPasswordLength})
	case errors.Is(err, auth.ErrPasswordTooLong):
		return nil, apperrors.NewValidationError("password too long", map[string]any{"maxLength": auth.MaxPasswordLength})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("user already exists", nil)
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// LoginUser authenticates a user and issues an access token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, domain.Token, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, "", domain.Token{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, meta, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, meta, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}
