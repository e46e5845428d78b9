// Request and response payloads for the auth endpoints, with the explicit
// field validation the handlers apply before touching the service layer.
package auth

import (
	"regexp"

	"github.com/user/turismo-go/apperror"
)

// emailPattern is a deliberately loose shape check; real validation of an
// address happens when mail is actually delivered to it.
var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,}$`)

const (
	minPasswordLength = 6
	minUsernameLength = 3
	maxUsernameLength = 30
)

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the registration rules: all fields present, email shaped
// like an address, password long enough.
func (r *RegisterRequest) Validate() error {
	if r.Username == "" || r.Email == "" || r.Password == "" {
		return apperror.NewValidationError("username, email and password are required", nil)
	}
	if !emailPattern.MatchString(r.Email) {
		return apperror.NewValidationError("email address format is not valid", nil)
	}
	if len(r.Password) < minPasswordLength {
		return apperror.NewValidationError("password must be at least 6 characters long", nil)
	}
	return nil
}

// RegisterResponse confirms a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"userId"`
}

// LoginRequest is the payload for POST /auth/login. Login is by username
// only; the email address is not accepted as an identifier here.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the public user fields plus the session token.
type LoginResponse struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	ProfileImage *string `json:"profile_image,omitempty"`
	AccessToken  string  `json:"accessToken"`
}

// ForgotPasswordRequest is the payload for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password; the token travels in the URL.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// UpdateUsernameRequest is the payload for PUT /auth/profile/username.
type UpdateUsernameRequest struct {
	Username string `json:"username"`
}

// UpdateEmailRequest is the payload for PUT /auth/profile/email.
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest requires re-proof of the current password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MessageResponse is the generic {message} body shared by several endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
