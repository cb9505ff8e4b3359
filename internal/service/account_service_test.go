package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/repository"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func newFakeAccountRepo(seed ...*domain.Account) *fakeAccountRepo {
	repo := &fakeAccountRepo{accounts: map[string]*domain.Account{}}
	for _, account := range seed {
		repo.accounts[account.ID] = account
	}
	return repo
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.nextID++
	account.ID = fmt.Sprintf("acc-%d", r.nextID)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) UpdateFields(_ context.Context, id string, patch repository.AccountPatch) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Role != nil {
		account.Role = *patch.Role
	}
	if patch.IsActive != nil {
		account.IsActive = *patch.IsActive
	}
	if patch.Permissions != nil {
		account.Permissions = *patch.Permissions
	}
	if patch.AllowedPages != nil {
		account.AllowedPages = *patch.AllowedPages
	}
	if patch.CanManageUsers != nil {
		account.CanManageUsers = *patch.CanManageUsers
	}
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	result := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		result = append(result, *account)
	}
	return result, nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) TouchLastLogin(_ context.Context, id string) error {
	account, ok := r.accounts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	account.LastLoginAt = &now
	return nil
}

type fakeSessionCounter struct {
	counts map[string]int
}

func (c *fakeSessionCounter) CountByAccount(_ context.Context, accountID string) (int, error) {
	return c.counts[accountID], nil
}

func managerIdentity() *auth.Identity {
	return &auth.Identity{ID: "caller-1", Email: "boss@example.com", Role: domain.RoleSuperAdmin}
}

func assertDomainError(t *testing.T, err error, code string, status int) {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
	assert.Equal(t, status, de.HTTPStatus)
}

func TestAccountOperationsRequireAuthentication(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil, 4)
	ctx := context.Background()

	_, err := svc.List(ctx, nil)
	assertDomainError(t, err, "UNAUTHORIZED", http.StatusUnauthorized)

	_, err = svc.Create(ctx, nil, CreateAccountInput{})
	assertDomainError(t, err, "UNAUTHORIZED", http.StatusUnauthorized)

	_, err = svc.Update(ctx, nil, UpdateAccountInput{UserID: "acc-1"})
	assertDomainError(t, err, "UNAUTHORIZED", http.StatusUnauthorized)

	_, err = svc.Delete(ctx, nil, "acc-1")
	assertDomainError(t, err, "UNAUTHORIZED", http.StatusUnauthorized)
}

func TestAccountOperationsRequireManageUsers(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil, 4)
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleCustomer, domain.RoleSupport, domain.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			caller := &auth.Identity{ID: "caller-1", Role: role}

			_, err := svc.List(ctx, caller)
			assertDomainError(t, err, "FORBIDDEN", http.StatusForbidden)

			_, err = svc.Create(ctx, caller, CreateAccountInput{Name: "n", Email: "e@x.com", Password: "p"})
			assertDomainError(t, err, "FORBIDDEN", http.StatusForbidden)

			_, err = svc.Update(ctx, caller, UpdateAccountInput{UserID: "acc-1"})
			assertDomainError(t, err, "FORBIDDEN", http.StatusForbidden)

			_, err = svc.Delete(ctx, caller, "acc-1")
			assertDomainError(t, err, "FORBIDDEN", http.StatusForbidden)
		})
	}

	flagged := &auth.Identity{ID: "caller-1", Role: domain.RoleAdmin, CanManageUsers: true}
	_, err := svc.List(ctx, flagged)
	assert.NoError(t, err)
}

func TestCreateAccountDefaults(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewAccountService(repo, nil, 4)

	account, err := svc.Create(context.Background(), managerIdentity(), CreateAccountInput{
		Name:     "New Admin",
		Email:    "  New.Admin@Example.COM ",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.admin@example.com", account.Email)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.True(t, account.IsActive)
	assert.False(t, account.CanManageUsers, "capability is never granted at creation")
	assert.Equal(t, []string{}, account.Permissions)
	assert.Equal(t, []string{"/profile"}, account.AllowedPages)
	require.NotNil(t, account.CreatedBy)
	assert.Equal(t, "caller-1", *account.CreatedBy)
	assert.NotEqual(t, "s3cret-pass", account.PasswordHash)
	assert.NoError(t, auth.ComparePassword(account.PasswordHash, "s3cret-pass"))
}

func TestCreateAccountMissingFields(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil, 4)

	_, err := svc.Create(context.Background(), managerIdentity(), CreateAccountInput{
		Name: "No Email",
	})
	assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)
}

func TestCreateAccountInvalidRole(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil, 4)
	role := "OVERLORD"

	_, err := svc.Create(context.Background(), managerIdentity(), CreateAccountInput{
		Name:     "New Admin",
		Email:    "new@example.com",
		Password: "pass",
		Role:     &role,
	})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "role", de.Details["field"])
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo(&domain.Account{ID: "acc-1", Email: "taken@example.com", Role: domain.RoleAdmin})
	svc := NewAccountService(repo, nil, 4)

	_, err := svc.Create(context.Background(), managerIdentity(), CreateAccountInput{
		Name:     "Dup",
		Email:    "Taken@Example.com",
		Password: "pass",
	})
	assertDomainError(t, err, "CONFLICT", http.StatusConflict)
}

func TestUpdateAccountPartialPatch(t *testing.T) {
	repo := newFakeAccountRepo(&domain.Account{
		ID:          "acc-1",
		Email:       "staff@example.com",
		Role:        domain.RoleSupport,
		IsActive:    true,
		Permissions: []string{"orders.read"},
	})
	svc := NewAccountService(repo, nil, 4)

	inactive := false
	grant := true
	account, err := svc.Update(context.Background(), managerIdentity(), UpdateAccountInput{
		UserID:         "acc-1",
		IsActive:       &inactive,
		CanManageUsers: &grant,
	})
	require.NoError(t, err)

	assert.False(t, account.IsActive)
	assert.True(t, account.CanManageUsers)
	assert.Equal(t, domain.RoleSupport, account.Role, "omitted fields stay unchanged")
	assert.Equal(t, []string{"orders.read"}, account.Permissions)
}

func TestUpdateAccountInvalidRole(t *testing.T) {
	repo := newFakeAccountRepo(&domain.Account{ID: "acc-1", Role: domain.RoleAdmin})
	svc := NewAccountService(repo, nil, 4)
	role := "wizard"

	_, err := svc.Update(context.Background(), managerIdentity(), UpdateAccountInput{
		UserID: "acc-1",
		Role:   &role,
	})
	assertDomainError(t, err, "VALIDATION_FAILED", http.StatusBadRequest)

	stored, err := repo.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role, "rejected patch must not mutate")
}

func TestUpdateAccountNotFound(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil, 4)
	active := true

	_, err := svc.Update(context.Background(), managerIdentity(), UpdateAccountInput{
		UserID:   "ghost",
		IsActive: &active,
	})
	assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeAccountRepo(&domain.Account{ID: "acc-2", Email: "gone@example.com", Role: domain.RoleAdmin})
	svc := NewAccountService(repo, nil, 4)

	email, err := svc.Delete(context.Background(), managerIdentity(), "acc-2")
	require.NoError(t, err)
	assert.Equal(t, "gone@example.com", email)

	_, err = repo.GetByID(context.Background(), "acc-2")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestDeleteAccountSelf(t *testing.T) {
	caller := managerIdentity()
	repo := newFakeAccountRepo(&domain.Account{ID: caller.ID, Role: domain.RoleSuperAdmin})
	svc := NewAccountService(repo, nil, 4)

	_, err := svc.Delete(context.Background(), caller, caller.ID)
	assertDomainError(t, err, "CANNOT_DELETE_SELF", http.StatusBadRequest)
}

func TestDeleteAccountSuperAdmin(t *testing.T) {
	repo := newFakeAccountRepo(&domain.Account{ID: "acc-9", Email: "root@example.com", Role: domain.RoleSuperAdmin})
	svc := NewAccountService(repo, nil, 4)

	_, err := svc.Delete(context.Background(), managerIdentity(), "acc-9")
	assertDomainError(t, err, "CANNOT_DELETE_SUPER_ADMIN", http.StatusBadRequest)

	_, err = repo.GetByID(context.Background(), "acc-9")
	assert.NoError(t, err, "protected account must survive")
}

func TestDeleteAccountNotFound(t *testing.T) {
	svc := NewAccountService(newFakeAccountRepo(), nil, 4)

	_, err := svc.Delete(context.Background(), managerIdentity(), "ghost")
	assertDomainError(t, err, "NOT_FOUND", http.StatusNotFound)
}

func TestListAccountsIncludesSessionCounts(t *testing.T) {
	repo := newFakeAccountRepo(
		&domain.Account{ID: "acc-1", Email: "a@example.com", Role: domain.RoleAdmin},
		&domain.Account{ID: "acc-2", Email: "b@example.com", Role: domain.RoleAdmin},
	)
	counter := &fakeSessionCounter{counts: map[string]int{"acc-1": 3}}
	svc := NewAccountService(repo, counter, 4)

	accounts, err := svc.List(context.Background(), managerIdentity())
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	byID := map[string]int{}
	for _, entry := range accounts {
		byID[entry.Account.ID] = entry.SessionCount
	}
	assert.Equal(t, 3, byID["acc-1"])
	assert.Equal(t, 0, byID["acc-2"])
}
