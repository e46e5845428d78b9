package auth

import (
	"testing"
	"time"

	"github.com/user/turismo-go/config"
)

func testTokenManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: ttl,
	})
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	m := testTokenManager(time.Hour)
	user := &User{ID: 42, Username: "alice", Role: RoleUser}

	tok, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID mismatch: got %d want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Fatalf("Username mismatch: got %q want %q", claims.Username, "alice")
	}
	if claims.Role != RoleUser {
		t.Fatalf("Role mismatch: got %q want %q", claims.Role, RoleUser)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := testTokenManager(-time.Minute)
	tok, err := m.Issue(&User{ID: 1, Username: "bob", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = m.Verify(tok)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	m := testTokenManager(time.Hour)
	tok, err := m.Issue(&User{ID: 1, Username: "bob", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	other := NewTokenManager(&config.AuthConfig{
		JWTSecret:      "a-different-secret",
		AccessTokenTTL: time.Hour,
	})
	_, err = other.Verify(tok)
	if err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := testTokenManager(time.Hour)
	_, err := m.Verify("not.a.token")
	if err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for malformed token, got %v", err)
	}
}

func TestVerify_ZeroUserID(t *testing.T) {
	t.Parallel()

	m := testTokenManager(time.Hour)
	tok, err := m.Issue(&User{ID: 0, Username: "ghost", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = m.Verify(tok)
	if err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for zero user id, got %v", err)
	}
}

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	a, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken error: %v", err)
	}
	if len(a) != resetTokenBytes*2 {
		t.Fatalf("token length: got %d want %d", len(a), resetTokenBytes*2)
	}

	b, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken error: %v", err)
	}
	if a == b {
		t.Fatalf("two reset tokens must not collide")
	}
}
