package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// AccountPatch carries the optional fields of a partial account update.
// A nil field is a no-op, not a clear.
type AccountPatch struct {
	Role           *domain.Role
	IsActive       *bool
	Permissions    *[]string
	AllowedPages   *[]string
	CanManageUsers *bool
}

// IsEmpty reports whether the patch mutates anything.
func (p AccountPatch) IsEmpty() bool {
	return p.Role == nil && p.IsActive == nil && p.Permissions == nil &&
		p.AllowedPages == nil && p.CanManageUsers == nil
}

// AccountRepository defines persistence access for staff accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	UpdateFields(ctx context.Context, id string, patch AccountPatch) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, role, is_active, permissions, allowed_pages,
               can_manage_users, created_by, created_at, updated_at, last_login_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (name, email, password_hash, role, is_active, permissions, allowed_pages, can_manage_users, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.IsActive,
		account.Permissions,
		account.AllowedPages,
		account.CanManageUsers,
		account.CreatedBy,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) UpdateFields(ctx context.Context, id string, patch AccountPatch) (*domain.Account, error) {
	sets := []string{}
	args := []any{}

	if patch.Role != nil {
		args = append(args, *patch.Role)
		sets = append(sets, fmt.Sprintf("role=$%d", len(args)))
	}
	if patch.IsActive != nil {
		args = append(args, *patch.IsActive)
		sets = append(sets, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if patch.Permissions != nil {
		args = append(args, *patch.Permissions)
		sets = append(sets, fmt.Sprintf("permissions=$%d", len(args)))
	}
	if patch.AllowedPages != nil {
		args = append(args, *patch.AllowedPages)
		sets = append(sets, fmt.Sprintf("allowed_pages=$%d", len(args)))
	}
	if patch.CanManageUsers != nil {
		args = append(args, *patch.CanManageUsers)
		sets = append(sets, fmt.Sprintf("can_manage_users=$%d", len(args)))
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)

	return r.scanOne(r.pool.QueryRow(ctx, query, args...))
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id=$1`, accountColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE LOWER(email)=LOWER($1)`, accountColumns)
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY created_at DESC`, accountColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := scanAccount(rows, &account); err != nil {
			return nil, err
		}
		result = append(result, account)
	}
	return result, rows.Err()
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE accounts SET last_login_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *accountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := scanAccount(row, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func scanAccount(row pgx.Row, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.IsActive,
		&account.Permissions,
		&account.AllowedPages,
		&account.CanManageUsers,
		&account.CreatedBy,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.LastLoginAt,
	)
}
