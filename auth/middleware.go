// The authorization gate. A request moves through exactly one verification
// stage (RequireToken) and optionally one predicate stage (RequireAdmin or
// RequireOwnerOrAdmin). Predicates are plain functions over verified claims
// so they can be unit-tested without any HTTP machinery, and they are never
// evaluated before verification succeeded.
package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/turismo-go/apperror"
)

// legacyTokenHeader is the pre-Bearer header some older clients still send.
const legacyTokenHeader = "X-Access-Token"

// extractToken pulls the raw token from the Authorization header, falling
// back to the legacy header, and strips a Bearer prefix if present.
func extractToken(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		token = r.Header.Get(legacyTokenHeader)
	}
	if token == "" {
		return "", ErrTokenMissing
	}
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}
	return token, nil
}

// RequireToken verifies the session token and attaches the claims to the
// request context. Rejected requests never reach the wrapped handler.
func RequireToken(tokens *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("no token provided", nil))
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				switch err {
				case ErrTokenExpired:
					WriteError(w, r, apperror.NewAuthError("unauthorized: token has expired", nil))
				default:
					WriteError(w, r, apperror.NewAuthError("unauthorized: invalid token", nil))
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// AdminOnly is the role predicate: the verified identity must hold the admin
// role.
func AdminOnly(claims *Claims) error {
	if claims.Role != RoleAdmin {
		return apperror.NewForbiddenError("admin role required", nil)
	}
	return nil
}

// OwnerOrAdmin is the ownership predicate: the verified subject must address
// its own resource, unless it holds the admin role.
func OwnerOrAdmin(claims *Claims, ownerID int) error {
	if claims.Role == RoleAdmin {
		return nil
	}
	if claims.UserID != ownerID {
		return apperror.NewForbiddenError("you do not have permission to modify this profile", nil)
	}
	return nil
}

// RequireAdmin enforces AdminOnly. It must be mounted after RequireToken.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("no authentication context", nil))
			return
		}
		if err := AdminOnly(claims); err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwnerOrAdmin enforces OwnerOrAdmin against the {id} path parameter.
// It must be mounted after RequireToken.
func RequireOwnerOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("no authentication context", nil))
			return
		}
		ownerID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid user id", nil))
			return
		}
		if err := OwnerOrAdmin(claims, ownerID); err != nil {
			WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
