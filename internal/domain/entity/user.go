package entity

import (
	"errors"
	"time"
)

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is an account record. Email is the natural key and is unique.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"` // bcrypt hash, never the raw password
	Role      UserRole  `bson:"role" json:"role"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func NewUser(name, email string, role UserRole) (*User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if !role.Valid() {
		return nil, errors.New("invalid user role")
	}
	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
