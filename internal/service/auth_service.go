package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// AuthService mints the credentials the resolver later consumes: an admin
// JWT and a cookie-bound session.
type AuthService struct {
	accounts   repository.AccountRepository
	sessions   auth.SessionStore
	tokenMgr   *auth.TokenManager
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository, sessions auth.SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:   accounts,
		sessions:   sessions,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		sessionTTL: cfg.Session.TTL(),
		logger:     logger,
	}
}

// LoginResult carries the issued credentials.
type LoginResult struct {
	Account      *domain.Account
	Token        string
	ExpiresAt    time.Time
	SessionToken string
	SessionTTL   time.Duration
}

// Login authenticates an admin-tier account and issues a bearer token plus a
// session bound to an opaque cookie token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !account.IsActive {
		return nil, apperrors.NewForbidden("account is disabled")
	}
	if !account.Role.IsAdminTier() {
		return nil, apperrors.NewForbidden("admin access required")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	sessionToken := uuid.NewString()
	session := auth.Session{
		AccountID:      account.ID,
		Email:          account.Email,
		Role:           account.Role,
		CanManageUsers: account.CanManageUsers,
	}
	if err := s.sessions.Create(ctx, sessionToken, session, s.sessionTTL); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.String("account_id", account.ID), zap.Error(err))
	}

	return &LoginResult{
		Account:      account,
		Token:        token,
		ExpiresAt:    expiresAt,
		SessionToken: sessionToken,
		SessionTTL:   s.sessionTTL,
	}, nil
}

// Logout revokes the session bound to the cookie token. A missing or already
// revoked session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionToken); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for resolver wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
