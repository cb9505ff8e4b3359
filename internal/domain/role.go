package domain

// Role enumerates staff roles in ascending order of privilege.
type Role string

const (
	RoleUser       Role = "USER"
	RoleCustomer   Role = "CUSTOMER"
	RoleSupport    Role = "SUPPORT"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var roleRank = map[Role]int{
	RoleUser:       0,
	RoleCustomer:   1,
	RoleSupport:    2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// Roles lists the valid role values in rank order.
func Roles() []Role {
	return []Role{RoleUser, RoleCustomer, RoleSupport, RoleAdmin, RoleSuperAdmin}
}

// IsValid reports whether the role is a member of the enumerated domain.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether the role ranks at or above the other role.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// IsAdminTier reports whether the role grants access to admin resources.
func (r Role) IsAdminTier() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
