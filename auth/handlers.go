// HTTP handlers for the auth endpoints, plus the shared response helpers the
// other handler packages reuse.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/turismo-go/apperror"
)

// Handlers wraps the auth Service for HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the auth handler set.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister handles POST /auth/register.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := req.Validate(); err != nil {
			WriteError(w, r, err)
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{
			Message: "user registered successfully",
			UserID:  user.ID,
		})
	}
}

// HandleLogin handles POST /auth/login.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewValidationError("username and password are required", nil))
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleForgotPassword handles POST /auth/forgot-password. The success body
// is byte-identical whether or not the email is registered.
func (h *Handlers) HandleForgotPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Email == "" {
			WriteError(w, r, apperror.NewValidationError("email is required", nil))
			return
		}

		if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{
			Message: "If your email address is registered with us, you will receive a password reset link.",
		})
	}
}

// HandleResetPassword handles POST /auth/reset-password/{token}.
func (h *Handlers) HandleResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Password == "" {
			WriteError(w, r, apperror.NewValidationError("new password is required", nil))
			return
		}
		if len(req.Password) < minPasswordLength {
			WriteError(w, r, apperror.NewValidationError("password must be at least 6 characters long", nil))
			return
		}

		if err := h.service.ResetPassword(r.Context(), token, req.Password); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "password has been reset successfully"})
	}
}

// HandleUpdateUsername handles PUT /auth/profile/username. The subject is
// taken from the verified token, never from a path parameter.
func (h *Handlers) HandleUpdateUsername() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("no authentication context", nil))
			return
		}

		var req UpdateUsernameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		username := strings.TrimSpace(req.Username)
		if username == "" {
			WriteError(w, r, apperror.NewValidationError("new username must not be empty", nil))
			return
		}
		if len(username) < minUsernameLength || len(username) > maxUsernameLength {
			WriteError(w, r, apperror.NewValidationError("username must be between 3 and 30 characters", nil))
			return
		}

		if err := h.service.UpdateUsername(r.Context(), claims.UserID, username); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message":  "username updated successfully",
			"username": username,
		})
	}
}

// HandleUpdateEmail handles PUT /auth/profile/email.
func (h *Handlers) HandleUpdateEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("no authentication context", nil))
			return
		}

		var req UpdateEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		email := strings.TrimSpace(req.Email)
		if email == "" {
			WriteError(w, r, apperror.NewValidationError("new email must not be empty", nil))
			return
		}
		if !emailPattern.MatchString(email) {
			WriteError(w, r, apperror.NewValidationError("email address format is not valid", nil))
			return
		}

		if err := h.service.UpdateEmail(r.Context(), claims.UserID, email); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "email updated successfully",
			"email":   strings.ToLower(email),
		})
	}
}

// HandleUpdatePassword handles PUT /auth/profile/password.
func (h *Handlers) HandleUpdatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("no authentication context", nil))
			return
		}

		var req UpdatePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.CurrentPassword == "" || req.NewPassword == "" {
			WriteError(w, r, apperror.NewValidationError("current password and new password are required", nil))
			return
		}
		if len(req.NewPassword) < minPasswordLength {
			WriteError(w, r, apperror.NewValidationError("new password must be at least 6 characters long", nil))
			return
		}
		if req.CurrentPassword == req.NewPassword {
			WriteError(w, r, apperror.NewValidationError("new password must be different from the current password", nil))
			return
		}

		if err := h.service.UpdatePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			WriteError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "password updated successfully"})
	}
}

// writeJSON serializes data with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"message":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteJSON is the exported variant used by the other handler packages.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

// WriteError converts any error into the standard JSON error envelope.
// Errors that are not *apperror.AppError become opaque 500s; internal detail
// never leaves the server.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
