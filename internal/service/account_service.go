package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// SessionCounter reports live session counts per account.
type SessionCounter interface {
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

// AccountService manages the staff account lifecycle. Every operation is
// gated by the manage-users capability.
type AccountService struct {
	accounts   repository.AccountRepository
	sessions   SessionCounter
	bcryptCost int
}

// NewAccountService constructs the service. sessions may be nil; session
// counts then read zero.
func NewAccountService(accounts repository.AccountRepository, sessions SessionCounter, bcryptCost int) *AccountService {
	return &AccountService{accounts: accounts, sessions: sessions, bcryptCost: bcryptCost}
}

// CreateAccountInput describes account creation.
type CreateAccountInput struct {
	Name         string
	Email        string
	Password     string
	Role         *string
	Permissions  []string
	AllowedPages []string
}

// UpdateAccountInput describes a partial account update. Nil fields are left
// unchanged.
type UpdateAccountInput struct {
	UserID         string
	Role           *string
	IsActive       *bool
	Permissions    *[]string
	AllowedPages   *[]string
	CanManageUsers *bool
}

// AccountWithSessions pairs an account with its live session count.
type AccountWithSessions struct {
	Account      domain.Account
	SessionCount int
}

func (s *AccountService) requireManager(caller *auth.Identity) error {
	if caller == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !auth.Authorize(*caller, auth.CapabilityManageUsers) {
		return apperrors.NewForbidden("manage-users capability required")
	}
	return nil
}

// List returns all accounts newest-created first with session counts.
func (s *AccountService) List(ctx context.Context, caller *auth.Identity) ([]AccountWithSessions, error) {
	if err := s.requireManager(caller); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	result := make([]AccountWithSessions, 0, len(accounts))
	for _, account := range accounts {
		count := 0
		if s.sessions != nil {
			if c, err := s.sessions.CountByAccount(ctx, account.ID); err == nil {
				count = c
			}
		}
		result = append(result, AccountWithSessions{Account: account, SessionCount: count})
	}
	return result, nil
}

// Create provisions a new account. The manage-users capability is never
// granted at creation, whatever role was requested.
func (s *AccountService) Create(ctx context.Context, caller *auth.Identity, input CreateAccountInput) (*domain.Account, error) {
	if err := s.requireManager(caller); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	role := domain.RoleAdmin
	if input.Role != nil {
		role = domain.Role(*input.Role)
		if !role.IsValid() {
			return nil, apperrors.NewEnumViolation("role", *input.Role, domain.Roles())
		}
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	permissions := input.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	allowedPages := input.AllowedPages
	if allowedPages == nil {
		allowedPages = []string{"/profile"}
	}

	callerID := caller.ID
	account := &domain.Account{
		Name:           input.Name,
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		IsActive:       true,
		Permissions:    permissions,
		AllowedPages:   allowedPages,
		CanManageUsers: false,
		CreatedBy:      &callerID,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// Update applies a partial update; omitted fields are left unchanged.
func (s *AccountService) Update(ctx context.Context, caller *auth.Identity, input UpdateAccountInput) (*domain.Account, error) {
	if err := s.requireManager(caller); err != nil {
		return nil, err
	}
	if input.UserID == "" {
		return nil, apperrors.NewValidationError("userId is required", nil)
	}

	patch := repository.AccountPatch{
		IsActive:       input.IsActive,
		Permissions:    input.Permissions,
		AllowedPages:   input.AllowedPages,
		CanManageUsers: input.CanManageUsers,
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if !role.IsValid() {
			return nil, apperrors.NewEnumViolation("role", *input.Role, domain.Roles())
		}
		patch.Role = &role
	}

	account, err := s.accounts.UpdateFields(ctx, input.UserID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"userId": input.UserID})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// Delete removes an account, guarding the self-deletion and super-admin
// invariants, and returns the deleted account's email for confirmation.
func (s *AccountService) Delete(ctx context.Context, caller *auth.Identity, userID string) (string, error) {
	if err := s.requireManager(caller); err != nil {
		return "", err
	}
	if userID == "" {
		return "", apperrors.NewValidationError("userId is required", nil)
	}
	if userID == caller.ID {
		return "", apperrors.NewValidationErrorWithCode("CANNOT_DELETE_SELF",
			"accounts cannot delete themselves", nil)
	}

	target, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("account", map[string]any{"userId": userID})
		}
		return "", apperrors.MapError(err)
	}
	if target.Role == domain.RoleSuperAdmin {
		return "", apperrors.NewValidationErrorWithCode("CANNOT_DELETE_SUPER_ADMIN",
			"super admin accounts cannot be deleted", nil)
	}

	if err := s.accounts.Delete(ctx, userID); err != nil {
		return "", apperrors.MapError(err)
	}
	return target.Email, nil
}
