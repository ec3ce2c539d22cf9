package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/clubops/club-system/models"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const (
	claimsContextKey contextKey = "claims"
	userContextKey   contextKey = "user"
)

// Machine-readable codes carried alongside 401/403 bodies so clients can
// distinguish a missing token from an expired one.
const (
	CodeNoToken         = "NO_TOKEN"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeAccountDisabled = "ACCOUNT_DISABLED"
	CodeForbidden       = "FORBIDDEN"
)

// UserLoader fetches the token's subject so disabled accounts are rejected
// even while their tokens are still valid. Satisfied by the user repository.
type UserLoader interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type Authenticator struct {
	jwtSecret []byte
	users     UserLoader
}

func NewAuthenticator(jwtSecret string, users UserLoader) *Authenticator {
	return &Authenticator{
		jwtSecret: []byte(jwtSecret),
		users:     users,
	}
}

func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
	})
}

// extractToken reads the token from the Authorization header or, failing
// that, the "token" cookie.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate validates the JWT, loads the account and stores both the
// claims and the user on the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			respondAuthError(w, http.StatusUnauthorized, CodeNoToken, "authentication token is required")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.jwtSecret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				respondAuthError(w, http.StatusUnauthorized, CodeTokenExpired, "authentication token has expired")
				return
			}
			respondAuthError(w, http.StatusUnauthorized, CodeInvalidToken, "authentication token is invalid")
			return
		}
		if !token.Valid {
			respondAuthError(w, http.StatusUnauthorized, CodeInvalidToken, "authentication token is invalid")
			return
		}

		userID, err := userIDFromClaims(claims)
		if err != nil {
			respondAuthError(w, http.StatusUnauthorized, CodeInvalidToken, "authentication token is invalid")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			respondAuthError(w, http.StatusUnauthorized, CodeInvalidToken, "account no longer exists")
			return
		}
		if !user.IsActive {
			respondAuthError(w, http.StatusForbidden, CodeAccountDisabled, "account is disabled")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		ctx = context.WithValue(ctx, userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route subtree to the listed roles. Runs after
// Authenticate.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				respondAuthError(w, http.StatusUnauthorized, CodeInvalidToken, "failed to identify current user")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			required := make([]string, len(roles))
			for i, allowed := range roles {
				required[i] = string(allowed)
			}
			respondAuthError(w, http.StatusForbidden, CodeForbidden,
				fmt.Sprintf("role %q is not allowed here, requires one of: %s", role, strings.Join(required, ", ")))
		})
	}
}
