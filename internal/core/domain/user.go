package domain

import "time"

// Role is the access level carried by a user and embedded in its tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models a registered principal.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Banned       bool      `json:"banned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin is a shorthand used by the operation layer to pick the lookup path.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
