package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/imob-backoffice/internal/utils"
)

func TestSessionIsRepeatable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := utils.GenerateSessionToken(userID, "agent@test.com", "agent", time.Hour)
	require.NoError(t, err)

	auth := NewAuthenticator(nil, "auth-token")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	c.Request.AddCookie(&http.Cookie{Name: "auth-token", Value: token})

	first := auth.Session(c)
	second := auth.Session(c)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Subject, second.Subject)
	assert.Equal(t, userID.String(), first.Subject)

	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	c.Request.Header.Set("Authorization", "Bearer garbage")
	assert.Nil(t, auth.Session(c))
	assert.Nil(t, auth.Session(c))
}
