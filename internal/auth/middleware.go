package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "auth_identity"

// Middleware resolves credentials and stores the Identity for handlers.
type Middleware struct {
	resolver   *Resolver
	cookieName string
}

// NewMiddleware constructs middleware.
func NewMiddleware(resolver *Resolver, cookieName string) *Middleware {
	return &Middleware{resolver: resolver, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	identity, err := m.resolver.Resolve(c.Context(), CredentialsFromRequest(c, m.cookieName))
	if err != nil {
		return err
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// CredentialsFromRequest extracts the session cookie and bearer token.
func CredentialsFromRequest(c *fiber.Ctx, cookieName string) Credentials {
	creds := Credentials{SessionToken: c.Cookies(cookieName)}

	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			creds.BearerToken = strings.TrimSpace(parts[1])
		}
	}
	return creds
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
