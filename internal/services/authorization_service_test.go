package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/config"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

func newAuthorization(t *testing.T, db *gorm.DB) (*AuthService, *AuthorizationService) {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	cfg := &config.Config{JWT: config.JWTConfig{SessionTTL: 24}}
	authService := NewAuthService(db, cfg)
	return authService, NewAuthorizationService(authService)
}

func claimsFor(t *testing.T, token string) *utils.SessionClaims {
	t.Helper()
	claims, err := utils.ValidateSessionToken(token)
	require.NoError(t, err)
	return claims
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	authService, _ := newAuthorization(t, db)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	user := seedUser(t, db, "agent@test.com", models.RoleAgent, &branch.ID)

	result, err := authService.Login(ctx, "  AGENT@test.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, 86400, result.ExpiresIn)
	require.NotNil(t, result.User.Branch)
	assert.Equal(t, "CENTRO", result.User.Branch.Code)

	claims := claimsFor(t, result.Token)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "agent", claims.Role)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.NotNil(t, reloaded.LastLoginAt)

	_, err = authService.Login(ctx, "")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = authService.Login(ctx, "ghost@test.com")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAuthorize(t *testing.T) {
	db := newTestDB(t)
	authService, authz := newAuthorization(t, db)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	seedUser(t, db, "assistant@test.com", models.RoleAssistant, &branch.ID)
	seedUser(t, db, "admin@test.com", models.RoleAdmin, nil)

	login := func(email string) *utils.SessionClaims {
		result, err := authService.Login(ctx, email)
		require.NoError(t, err)
		return claimsFor(t, result.Token)
	}

	_, err := authz.Authorize(ctx, nil, nil)
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	assistant := login("assistant@test.com")
	user, err := authz.Authorize(ctx, assistant, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAssistant, user.Role)

	_, err = authz.Authorize(ctx, assistant, Need(models.ResourceLeads, models.ActionRead))
	assert.NoError(t, err)

	_, err = authz.Authorize(ctx, assistant, Need(models.ResourceLeads, models.ActionDelete))
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = authz.Authorize(ctx, assistant, Need(models.Resource("reports"), models.ActionRead))
	assert.True(t, errors.Is(err, ErrForbidden))

	// Admins pass on role alone, whatever their stored map says.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "admin@test.com").
		Update("permissions", models.PermissionMap{}).Error)
	admin := login("admin@test.com")
	_, err = authz.Authorize(ctx, admin, Need(models.ResourceFinancial, models.ActionDelete))
	assert.NoError(t, err)

	// Permission changes apply to sessions already issued.
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "assistant@test.com").
		Update("permissions", models.PermissionMap{}).Error)
	_, err = authz.Authorize(ctx, assistant, Need(models.ResourceLeads, models.ActionRead))
	assert.True(t, errors.Is(err, ErrForbidden))

	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "assistant@test.com").
		Update("active", false).Error)
	_, err = authz.Authorize(ctx, assistant, nil)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}
