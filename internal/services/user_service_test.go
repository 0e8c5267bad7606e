package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/imob-backoffice/internal/models"
)

func TestUserServiceGrantRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	manager := seedUser(t, db, "manager@test.com", models.RoleManager, &branch.ID)

	t.Run("manager cannot create an admin", func(t *testing.T) {
		_, err := svc.Create(ctx, manager, &CreateUserRequest{Name: "Eve", Email: "eve@test.com", Role: models.RoleAdmin})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("manager cannot grant what they lack", func(t *testing.T) {
		_, err := svc.Create(ctx, manager, &CreateUserRequest{
			Name:  "Bob",
			Email: "bob@test.com",
			Role:  models.RoleAgent,
			Permissions: models.PermissionMap{
				models.ResourceBranches: {Read: true, Delete: true},
			},
		})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("manager creates an agent in their branch", func(t *testing.T) {
		user, err := svc.Create(ctx, manager, &CreateUserRequest{Name: "Ana", Email: " ANA@test.com ", Role: models.RoleAgent})
		require.NoError(t, err)

		assert.Equal(t, "ana@test.com", user.Email)
		require.NotNil(t, user.BranchID)
		assert.Equal(t, branch.ID, *user.BranchID)
		assert.True(t, user.Active)
		assert.Equal(t, models.DefaultPermissions(models.RoleAgent), user.Permissions)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, manager, &CreateUserRequest{Name: "Ana", Email: "ana@test.com", Role: models.RoleAgent})
		assert.True(t, errors.Is(err, ErrConflict))
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.Create(ctx, manager, &CreateUserRequest{Name: "A", Email: "not-an-email", Role: models.RoleAgent})
		var fieldErrors *FieldErrors
		require.True(t, errors.As(err, &fieldErrors))
		assert.Len(t, fieldErrors.Fields, 2)
	})
}

func TestUserServiceAdminProtection(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	admin := seedUser(t, db, "admin@test.com", models.RoleAdmin, &branch.ID)
	manager := seedUser(t, db, "manager@test.com", models.RoleManager, &branch.ID)
	manager.Permissions[models.ResourceUsers] = models.Actions{Create: true, Read: true, Update: true, Delete: true}

	name := "Renamed"
	_, err := svc.Update(ctx, manager, admin.ID, &UpdateUserRequest{Name: &name})
	assert.True(t, errors.Is(err, ErrForbidden))

	err = svc.Delete(ctx, manager, admin.ID)
	assert.True(t, errors.Is(err, ErrForbidden))

	err = svc.Delete(ctx, admin, admin.ID)
	assert.True(t, errors.Is(err, ErrForbidden))

	inactive := false
	_, err = svc.Update(ctx, admin, admin.ID, &UpdateUserRequest{Active: &inactive})
	assert.True(t, errors.Is(err, ErrForbidden))

	promoted := models.RoleAdmin
	updated, err := svc.Update(ctx, admin, manager.ID, &UpdateUserRequest{Role: &promoted})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, models.FullAccess(), updated.Permissions)

	demoted := models.RoleAssistant
	updated, err = svc.Update(ctx, admin, manager.ID, &UpdateUserRequest{Role: &demoted})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAssistant, updated.Role)
	assert.Equal(t, models.DefaultPermissions(models.RoleAssistant), updated.Permissions)
	assert.False(t, updated.Can(models.ResourceUsers, models.ActionDelete))
	assert.False(t, updated.Can(models.ResourceFinancial, models.ActionCreate))

	// Permissions sent along with the demotion win over the defaults.
	promoted = models.RoleAdmin
	_, err = svc.Update(ctx, admin, manager.ID, &UpdateUserRequest{Role: &promoted})
	require.NoError(t, err)
	agent := models.RoleAgent
	updated, err = svc.Update(ctx, admin, manager.ID, &UpdateUserRequest{
		Role:        &agent,
		Permissions: models.PermissionMap{models.ResourceLeads: {Read: true}},
	})
	require.NoError(t, err)
	assert.True(t, updated.Can(models.ResourceLeads, models.ActionRead))
	assert.False(t, updated.Can(models.ResourceLeads, models.ActionCreate))
	assert.False(t, updated.Can(models.ResourceUsers, models.ActionRead))
}

func TestUserServiceNormalizesEmailBeforeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	branch := seedBranch(t, db, "Centro", "CENTRO")
	admin := seedUser(t, db, "admin@test.com", models.RoleAdmin, &branch.ID)

	user, err := svc.Create(ctx, admin, &CreateUserRequest{Name: "Ana", Email: " ana@test.com", Role: models.RoleAgent, BranchID: &branch.ID})
	require.NoError(t, err)
	assert.Equal(t, "ana@test.com", user.Email)

	padded := "  Ana.Souza@Test.com\t"
	updated, err := svc.Update(ctx, admin, user.ID, &UpdateUserRequest{Email: &padded})
	require.NoError(t, err)
	assert.Equal(t, "ana.souza@test.com", updated.Email)
}

func TestUserServiceListIsScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	north := seedBranch(t, db, "Norte", "NORTE")
	south := seedBranch(t, db, "Sul", "SUL")
	manager := seedUser(t, db, "manager@test.com", models.RoleManager, &north.ID)
	seedUser(t, db, "agent@test.com", models.RoleAgent, &north.ID)
	seedUser(t, db, "other@test.com", models.RoleAgent, &south.ID)

	q := ListQuery{}
	q.Page, q.Limit, q.Order = 1, 20, "desc"
	result, err := svc.List(ctx, manager, q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Pagination.Total)

	q.Filters = map[string]string{"role": "AGENT"}
	result, err = svc.List(ctx, manager, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Pagination.Total)
}
