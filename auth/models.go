// Package auth implements the authentication and authorization core:
// password hashing, session token issuance and verification, the
// password-reset token lifecycle, the request-level authorization gate, and
// the self-service profile operations.
package auth

import "time"

// Role values stored in users.role. There are exactly two.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a row in the users table. HashedPassword and the reset
// token fields are never serialized; the json tags make that structural
// rather than a per-handler convention.
type User struct {
	ID             int        `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	Role           string     `json:"role"`
	ResetToken     *string    `json:"-"`
	ResetExpiry    *time.Time `json:"-"`
	ProfileImage   *string    `json:"profile_image,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
