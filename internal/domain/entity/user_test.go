package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleBuyer.Valid())
	assert.True(t, RoleSeller.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, UserRole("wizard").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestNewUser_Validation(t *testing.T) {
	user, err := NewUser("Buyer", "buyer@example.com", RoleBuyer)
	assert.NoError(t, err)
	assert.Equal(t, RoleBuyer, user.Role)

	_, err = NewUser("Nobody", "", RoleBuyer)
	assert.Error(t, err)

	_, err = NewUser("Nobody", "nobody@example.com", UserRole("wizard"))
	assert.Error(t, err)
}
