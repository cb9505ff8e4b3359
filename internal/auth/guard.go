package auth

import "github.com/spec-kit/backoffice-service/internal/domain"

// Identity is the resolved principal for one request. It is never persisted.
type Identity struct {
	ID             string
	Email          string
	Role           domain.Role
	CanManageUsers bool
}

// Capability names a specific permission checked by the guard.
type Capability string

const (
	// CapabilityManageUsers gates the account lifecycle operations.
	CapabilityManageUsers Capability = "manageUsers"
	// CapabilityViewAdminResource gates read access to admin resources.
	CapabilityViewAdminResource Capability = "viewAdminResource"
)

// Authorize decides whether the identity holds the capability. The guard is
// pure: role SUPER_ADMIN always implies manageUsers, and the capability flag
// grants it regardless of role rank.
func Authorize(identity Identity, capability Capability) bool {
	switch capability {
	case CapabilityManageUsers:
		return identity.CanManageUsers || identity.Role == domain.RoleSuperAdmin
	case CapabilityViewAdminResource:
		return identity.Role.IsAdminTier()
	default:
		return false
	}
}
