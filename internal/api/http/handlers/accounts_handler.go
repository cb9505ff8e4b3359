package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/domain"
	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// AccountsHandler exposes the account lifecycle endpoints.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// ListAccounts GET /users.
func (h *AccountsHandler) ListAccounts(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	accounts, err := h.service.List(c.Context(), identity)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountResponse(&accounts[i].Account, accounts[i].SessionCount))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateAccount POST /users.
func (h *AccountsHandler) CreateAccount(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.service.Create(c.Context(), identity, service.CreateAccountInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Permissions:  req.Permissions,
		AllowedPages: req.AllowedPages,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": accountResponse(account, 0)})
}

// UpdateAccount PUT /users.
func (h *AccountsHandler) UpdateAccount(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.service.Update(c.Context(), identity, service.UpdateAccountInput{
		UserID:         req.UserID,
		Role:           req.Role,
		IsActive:       req.IsActive,
		Permissions:    req.Permissions,
		AllowedPages:   req.AllowedPages,
		CanManageUsers: req.CanManageUsers,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountResponse(account, 0)})
}

// DeleteAccount DELETE /users?id=.
func (h *AccountsHandler) DeleteAccount(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	email, err := h.service.Delete(c.Context(), identity, c.Query("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteAccountResponse{Email: email}})
}

func accountResponse(account *domain.Account, sessionCount int) dto.AccountResponse {
	return dto.AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		Role:           account.Role,
		IsActive:       account.IsActive,
		Permissions:    account.Permissions,
		AllowedPages:   account.AllowedPages,
		CanManageUsers: account.CanManageUsers,
		CreatedBy:      account.CreatedBy,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
		LastLoginAt:    account.LastLoginAt,
		SessionCount:   sessionCount,
	}
}
