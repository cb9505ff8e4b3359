package auth

import (
	"context"

	"github.com/spec-kit/backoffice-service/internal/domain"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// StageOutcome is the tri-state result of one credential stage. An explicit
// rejection must never be masked into a "try next stage" path.
type StageOutcome int

const (
	StageNotAttempted StageOutcome = iota
	StageAuthenticated
	StageRejected
)

// Credentials carries the raw credential material extracted from a request.
type Credentials struct {
	SessionToken string
	BearerToken  string
}

// AccountDirectory is the minimal lookup the resolver needs to hydrate the
// manage-users capability for bearer-authenticated callers.
type AccountDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// Resolver turns request credentials into an authenticated Identity. It tries
// the cookie-bound session first, then the bearer token, in fixed order.
type Resolver struct {
	sessions SessionStore
	tokens   *TokenManager
	accounts AccountDirectory
}

// NewResolver constructs a resolver. accounts may be nil; bearer identities
// then carry only what the token claims state.
func NewResolver(sessions SessionStore, tokens *TokenManager, accounts AccountDirectory) *Resolver {
	return &Resolver{sessions: sessions, tokens: tokens, accounts: accounts}
}

// Resolve produces an Identity or fails with Unauthorized (no usable
// credentials) or Forbidden (a presented bearer token failed the type/role
// check). The resolver is read-only.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (*Identity, error) {
	outcome, identity := r.resolveSession(ctx, creds.SessionToken)
	if outcome == StageAuthenticated {
		return identity, nil
	}

	outcome, identity = r.resolveBearer(ctx, creds.BearerToken)
	switch outcome {
	case StageAuthenticated:
		return identity, nil
	case StageRejected:
		return nil, apperrors.NewForbidden("token not valid for admin access")
	}

	return nil, apperrors.NewUnauthorized("authentication required")
}

// resolveSession is tolerant: any failure, including a session bound to a
// role below ADMIN, falls through to the next stage.
func (r *Resolver) resolveSession(ctx context.Context, token string) (StageOutcome, *Identity) {
	if token == "" || r.sessions == nil {
		return StageNotAttempted, nil
	}
	session, err := r.sessions.Lookup(ctx, token)
	if err != nil {
		return StageNotAttempted, nil
	}
	if !session.Role.IsAdminTier() {
		return StageNotAttempted, nil
	}
	return StageAuthenticated, &Identity{
		ID:             session.AccountID,
		Email:          session.Email,
		Role:           session.Role,
		CanManageUsers: session.CanManageUsers,
	}
}

// resolveBearer is strict once a token is presented: a well-formed token with
// the wrong type or an under-privileged role is rejected outright.
func (r *Resolver) resolveBearer(ctx context.Context, token string) (StageOutcome, *Identity) {
	if token == "" {
		return StageNotAttempted, nil
	}
	claims, err := r.tokens.ParseToken(token)
	if err != nil {
		return StageNotAttempted, nil
	}
	if claims.TokenType != TokenTypeAdmin || !claims.Role.IsAdminTier() {
		return StageRejected, nil
	}

	identity := &Identity{
		ID:    claims.ID,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if r.accounts != nil {
		if account, err := r.accounts.GetByID(ctx, claims.ID); err == nil {
			identity.CanManageUsers = account.CanManageUsers
		}
	}
	return StageAuthenticated, identity
}
