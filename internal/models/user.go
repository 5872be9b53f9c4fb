package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can authenticate against the system.
// Role is stored separately in user_roles and resolved at login.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Role represents a user's role in the conference system.
type Role string

const (
	RoleJudge             Role = "judge"
	RoleDepartmentManager Role = "department_manager"
	RoleStudent           Role = "student"
)

// ParseRole converts a wire string into a Role. The second return value
// is false for anything outside the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleJudge, RoleDepartmentManager, RoleStudent:
		return Role(s), true
	}
	return "", false
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsAdmin returns true for roles with administrative privileges.
// Department managers are the only admins in the system.
func (r Role) IsAdmin() bool {
	return r == RoleDepartmentManager
}

// Profile holds the display data attached to a user. Team membership on
// projects is derived by matching FullName against Project.TeamMembers.
type Profile struct {
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	FullName       string    `json:"full_name" db:"full_name"`
	ExpertiseAreas []string  `json:"expertise_areas" db:"expertise_areas"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest represents an account creation request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
