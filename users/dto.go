// Package users implements the administrative user CRUD surface and the
// profile-image upload. Self-service profile edits live in the auth package;
// everything here is addressed by id and guarded by the role or ownership
// predicate.
package users

import "time"

// UserResponse is the public projection of a user row. The password hash is
// not part of this struct at all, so it cannot leak by serialization.
type UserResponse struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest is the payload for POST /users. The role is not
// client-assignable; new users always get the default role.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateUserRequest is the partial-update payload for PUT /users/{id}.
// Nil means "leave this field alone".
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// UserPatch enumerates exactly which columns an update touches. It is built
// by the service (passwords arrive here already hashed) and turned into a
// parameterized statement at the data-access boundary; user input is never
// concatenated into SQL.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether the patch would touch nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil
}

// UploadImageResponse confirms a stored profile image.
type UploadImageResponse struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profile_image"`
}
