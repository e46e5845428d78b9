package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		errType ErrorType
		want    int
	}{
		{AuthError, http.StatusUnauthorized},
		{ForbiddenError, http.StatusForbidden},
		{NotFoundError, http.StatusNotFound},
		{ValidationError, http.StatusBadRequest},
		{BadRequestError, http.StatusBadRequest},
		{ConflictError, http.StatusConflict},
		{DatabaseError, http.StatusInternalServerError},
		{MailError, http.StatusInternalServerError},
		{MigrationError, http.StatusInternalServerError},
		{InternalError, http.StatusInternalServerError},
		{UnknownError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := NewAppError(tc.errType, "msg", nil).StatusCode()
		if got != tc.want {
			t.Errorf("type %d: got status %d want %d", tc.errType, got, tc.want)
		}
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	appErr := NewDatabaseError("failed to query users", cause)

	if appErr.Error() != "failed to query users: connection refused" {
		t.Fatalf("unexpected Error(): %q", appErr.Error())
	}
	if !errors.Is(appErr, cause) {
		t.Fatalf("errors.Is must see the wrapped cause")
	}

	bare := NewAuthError("invalid token", nil)
	if bare.Error() != "invalid token" {
		t.Fatalf("unexpected Error() without cause: %q", bare.Error())
	}
}

func TestToResponse_DropsCause(t *testing.T) {
	t.Parallel()

	appErr := NewInternalError("an unexpected error occurred", errors.New("secret detail"))
	resp := appErr.ToResponse()
	if resp.Message != "an unexpected error occurred" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestFromError(t *testing.T) {
	t.Parallel()

	if _, ok := FromError(nil); ok {
		t.Fatalf("nil must not convert")
	}
	if _, ok := FromError(errors.New("plain")); ok {
		t.Fatalf("plain error must not convert")
	}

	appErr := NewNotFoundError("user not found", nil)
	wrapped := fmt.Errorf("during request: %w", appErr)
	got, ok := FromError(wrapped)
	if !ok {
		t.Fatalf("wrapped AppError must convert")
	}
	if got.Type != NotFoundError {
		t.Fatalf("type mismatch after unwrap: got %d", got.Type)
	}
}

func TestTypePredicates(t *testing.T) {
	t.Parallel()

	if !IsNotFound(NewNotFoundError("x", nil)) {
		t.Errorf("IsNotFound failed")
	}
	if !IsAuthError(NewAuthError("x", nil)) {
		t.Errorf("IsAuthError failed")
	}
	if !IsForbidden(NewForbiddenError("x", nil)) {
		t.Errorf("IsForbidden failed")
	}
	if !IsValidationError(NewValidationError("x", nil)) {
		t.Errorf("IsValidationError failed")
	}
	if !IsConflictError(NewConflictError("x", nil)) {
		t.Errorf("IsConflictError failed")
	}
	if IsNotFound(NewAuthError("x", nil)) {
		t.Errorf("IsNotFound must not match AuthError")
	}
	if IsNotFound(errors.New("plain")) {
		t.Errorf("IsNotFound must not match a plain error")
	}
}
