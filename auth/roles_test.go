package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbazaar/marketplace-backend/auth"
)

func TestDefaultSignupRoles(t *testing.T) {
	roles := auth.DefaultSignupRoles()

	assert.ElementsMatch(t, []auth.Role{
		auth.RoleDeveloper,
		auth.RoleSeller,
		auth.RoleBuyer,
		auth.RoleSponsor,
	}, roles)

	assert.NotContains(t, roles, auth.RoleAdmin, "signup must never grant admin")
}

func TestParseRole(t *testing.T) {
	role, ok := auth.ParseRole("seller")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleSeller, role)

	_, ok = auth.ParseRole("superuser")
	assert.False(t, ok)

	_, ok = auth.ParseRole("")
	assert.False(t, ok)
}
