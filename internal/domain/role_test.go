package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	for _, role := range Roles() {
		assert.True(t, role.IsValid(), "expected %s to be valid", role)
	}
	assert.False(t, Role("MANAGER").IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("admin").IsValid(), "role comparison is case sensitive")
}

func TestRoleOrdering(t *testing.T) {
	ordered := Roles()
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i].AtLeast(ordered[i-1]),
			"%s should rank at least %s", ordered[i], ordered[i-1])
		assert.False(t, ordered[i-1].AtLeast(ordered[i]),
			"%s should rank below %s", ordered[i-1], ordered[i])
	}
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
}

func TestRoleIsAdminTier(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdminTier())
	assert.True(t, RoleSuperAdmin.IsAdminTier())
	assert.False(t, RoleUser.IsAdminTier())
	assert.False(t, RoleCustomer.IsAdminTier())
	assert.False(t, RoleSupport.IsAdminTier())
}
