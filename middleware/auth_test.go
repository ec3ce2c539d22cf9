package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubUserLoader struct {
	users map[int]*models.User
}

func (s *stubUserLoader) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func signToken(t *testing.T, secret string, userID int, role models.UserRole, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestAuthenticator() *Authenticator {
	return NewAuthenticator(testSecret, &stubUserLoader{users: map[int]*models.User{
		1: {ID: 1, Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, Role: models.RoleMember, IsActive: true},
		3: {ID: 3, Role: models.RoleCoach, IsActive: false},
	}})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doAuth(t *testing.T, auth *Authenticator, prepare func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	auth.Authenticate(okHandler()).ServeHTTP(rec, req)
	return rec
}

func responseCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Code
}

func TestAuthenticateMissingToken(t *testing.T) {
	rec := doAuth(t, newTestAuthenticator(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeNoToken, responseCode(t, rec))
}

func TestAuthenticateInvalidToken(t *testing.T) {
	rec := doAuth(t, newTestAuthenticator(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-jwt")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeInvalidToken, responseCode(t, rec))
}

func TestAuthenticateWrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", 1, models.RoleAdmin, time.Hour)
	rec := doAuth(t, newTestAuthenticator(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeInvalidToken, responseCode(t, rec))
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, 1, models.RoleAdmin, -time.Minute)
	rec := doAuth(t, newTestAuthenticator(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeTokenExpired, responseCode(t, rec))
}

func TestAuthenticateUnknownAccount(t *testing.T) {
	token := signToken(t, testSecret, 999, models.RoleAdmin, time.Hour)
	rec := doAuth(t, newTestAuthenticator(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeInvalidToken, responseCode(t, rec))
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	token := signToken(t, testSecret, 3, models.RoleCoach, time.Hour)
	rec := doAuth(t, newTestAuthenticator(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeAccountDisabled, responseCode(t, rec))
}

func TestAuthenticateViaCookie(t *testing.T) {
	token := signToken(t, testSecret, 1, models.RoleAdmin, time.Hour)
	rec := doAuth(t, newTestAuthenticator(), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatePopulatesContext(t *testing.T) {
	auth := newTestAuthenticator()
	token := signToken(t, testSecret, 1, models.RoleAdmin, time.Hour)

	var gotID int
	var gotRole models.UserRole
	var gotUser *models.User
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotID, err = GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		gotRole, err = GetUserRoleFromContext(r.Context())
		require.NoError(t, err)
		gotUser, err = GetUserFromContext(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	auth.Authenticate(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotID)
	assert.Equal(t, models.RoleAdmin, gotRole)
	require.NotNil(t, gotUser)
	assert.Equal(t, 1, gotUser.ID)
}

func TestRequireRole(t *testing.T) {
	auth := newTestAuthenticator()
	protected := auth.Authenticate(RequireRole(models.RoleSuperAdmin, models.RoleAdmin)(okHandler()))

	adminToken := signToken(t, testSecret, 1, models.RoleAdmin, time.Hour)
	memberToken := signToken(t, testSecret, 2, models.RoleMember, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeForbidden, responseCode(t, rec))
}
