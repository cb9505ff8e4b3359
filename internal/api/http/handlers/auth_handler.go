package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/backoffice-service/internal/api/dto"
	"github.com/spec-kit/backoffice-service/internal/service"
	apperrors "github.com/spec-kit/backoffice-service/pkg/util"
)

// AuthHandler exposes admin login and logout.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    result.SessionToken,
		Expires:  time.Now().Add(result.SessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": fiber.Map{
				"id":    result.Account.ID,
				"name":  result.Account.Name,
				"email": result.Account.Email,
				"role":  result.Account.Role,
			},
			"auth": dto.AuthResponse{Token: result.Token, ExpiresAt: result.ExpiresAt},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), c.Cookies(h.cookieName)); err != nil {
		return err
	}
	c.ClearCookie(h.cookieName)
	return c.JSON(fiber.Map{"data": fiber.Map{"loggedOut": true}})
}
