package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_UserRole_IsValid(t *testing.T) {
	for _, role := range GetAllRoles() {
		assert.Truef(t, role.IsValid(), "role %q should be valid", role)
	}

	assert.False(t, UserRole("superuser").IsValid())
	assert.False(t, UserRole("").IsValid())
}

func Test_FromUserRoleArrayToStringArray(t *testing.T) {
	assert.Equal(t,
		[]string{"owner", "admin", "developer", "viewer"},
		FromUserRoleArrayToStringArray(GetAllRoles()))
	assert.Empty(t, FromUserRoleArrayToStringArray(nil))
}
