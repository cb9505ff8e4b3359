package dto

import (
	"time"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         *string  `json:"role"`
	Permissions  []string `json:"permissions"`
	AllowedPages []string `json:"allowedPages"`
}

// UpdateAccountRequest payload; nil fields are left unchanged.
type UpdateAccountRequest struct {
	UserID         string    `json:"userId"`
	Role           *string   `json:"role"`
	IsActive       *bool     `json:"isActive"`
	Permissions    *[]string `json:"permissions"`
	AllowedPages   *[]string `json:"allowedPages"`
	CanManageUsers *bool     `json:"canManageUsers"`
}

// AccountResponse is the reduced projection; it never carries the password
// hash.
type AccountResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	IsActive       bool        `json:"isActive"`
	Permissions    []string    `json:"permissions"`
	AllowedPages   []string    `json:"allowedPages"`
	CanManageUsers bool        `json:"canManageUsers"`
	CreatedBy      *string     `json:"createdBy"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	LastLoginAt    *time.Time  `json:"lastLoginAt"`
	SessionCount   int         `json:"sessionCount"`
}

// DeleteAccountResponse confirms which account was removed.
type DeleteAccountResponse struct {
	Email string `json:"email"`
}
