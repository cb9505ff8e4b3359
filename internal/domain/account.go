package domain

import "time"

// Account models a staff or back-office user record.
type Account struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	IsActive       bool
	Permissions    []string
	AllowedPages   []string
	CanManageUsers bool
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastLoginAt    *time.Time
}
