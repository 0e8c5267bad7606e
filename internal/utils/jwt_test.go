package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	id := uuid.New()

	token, err := GenerateSessionToken(id, "ana@example.com", "manager", 24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(token)
	require.NoError(t, err)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSessionTokenRejectsExpiredAndForeign(t *testing.T) {
	SetJWTSecret("test-secret")

	expired, err := GenerateSessionToken(uuid.New(), "a@b.c", "agent", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateSessionToken(expired)
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	foreign, err := GenerateSessionToken(uuid.New(), "a@b.c", "agent", time.Hour)
	require.NoError(t, err)
	SetJWTSecret("test-secret")
	_, err = ValidateSessionToken(foreign)
	assert.Error(t, err)

	_, err = ValidateSessionToken("not-a-token")
	assert.Error(t, err)
}

func TestSessionTokenRequiresExpiry(t *testing.T) {
	SetJWTSecret("test-secret")
	claims := SessionClaims{Email: "a@b.c", RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractSessionTokenPrefersBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer header-token")
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: "cookie-token"})
	assert.Equal(t, "header-token", ExtractSessionToken(req, "auth-token"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: "cookie-token"})
	assert.Equal(t, "cookie-token", ExtractSessionToken(req, "auth-token"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractSessionToken(req, "auth-token"))
}
