package models

import "time"

// Role represents the access level stored in a user's profile.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleReadWrite Role = "read_write"
	RoleReadOnly  Role = "read_only"
)

// Valid reports whether the role is one of the three known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReadWrite, RoleReadOnly:
		return true
	}
	return false
}

// DefaultRole is assigned to every freshly created identity. Admin accounts
// are seeded or promoted explicitly through role management.
const DefaultRole = RoleReadOnly

// User represents an identity stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile holds the role for exactly one user. It is created in the same
// transaction as its user, never by a post-creation hook.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserAccount is the users ⋈ profiles projection used for listings.
type UserAccount struct {
	ID        string     `db:"id" json:"id"`
	Username  string     `db:"username" json:"username"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Role      Role       `db:"role" json:"role"`
	Active    bool       `db:"active" json:"active"`
	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// UserFilter captures filtering criteria for listing accounts.
type UserFilter struct {
	Role      *Role
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
