package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/imob-backoffice/internal/models"
)

func TestScopeFor(t *testing.T) {
	branchID := uuid.New()

	admin := ScopeFor(&models.User{Role: models.RoleAdmin, BranchID: &branchID})
	assert.True(t, admin.All)

	manager := ScopeFor(&models.User{Role: models.RoleManager, BranchID: &branchID})
	assert.False(t, manager.All)
	require.NotNil(t, manager.BranchID)
	assert.Equal(t, branchID, *manager.BranchID)

	// The scope must not alias the user's field.
	user := &models.User{Role: models.RoleAgent, BranchID: &branchID}
	scope := ScopeFor(user)
	other := uuid.New()
	user.BranchID = &other
	assert.Equal(t, branchID, *scope.BranchID)

	assert.Equal(t, Scope{}, ScopeFor(&models.User{Role: models.RoleAgent}))
	assert.Equal(t, Scope{}, ScopeFor(nil))
}

func TestScopeApply(t *testing.T) {
	db := newTestDB(t)
	north := seedBranch(t, db, "Norte", "NORTE")
	south := seedBranch(t, db, "Sul", "SUL")
	for _, b := range []models.Branch{north, north, south} {
		require.NoError(t, db.Create(&models.Lead{Name: "Lead", Status: models.LeadStatusNew, BranchID: b.ID}).Error)
	}

	count := func(scope Scope) int64 {
		var n int64
		require.NoError(t, scope.Apply(db.Model(&models.Lead{}), "branch_id").Count(&n).Error)
		return n
	}

	assert.Equal(t, int64(3), count(Scope{All: true}))
	assert.Equal(t, int64(2), count(Scope{BranchID: &north.ID}))
	assert.Equal(t, int64(1), count(Scope{BranchID: &south.ID}))
	assert.Equal(t, int64(0), count(Scope{}))
}

func TestBranchForCreate(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	_, err := Scope{All: true}.BranchForCreate(nil)
	assert.True(t, errors.Is(err, ErrValidation))

	got, err := Scope{All: true}.BranchForCreate(&other)
	require.NoError(t, err)
	assert.Equal(t, other, got)

	got, err = Scope{BranchID: &own}.BranchForCreate(nil)
	require.NoError(t, err)
	assert.Equal(t, own, got)

	_, err = Scope{BranchID: &own}.BranchForCreate(&other)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = Scope{}.BranchForCreate(nil)
	assert.True(t, errors.Is(err, ErrNoBranch))
}

func TestBranchForUpdate(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	assert.NoError(t, Scope{BranchID: &own}.BranchForUpdate(nil))
	assert.NoError(t, Scope{BranchID: &own}.BranchForUpdate(&own))
	assert.NoError(t, Scope{All: true}.BranchForUpdate(&other))
	assert.True(t, errors.Is(Scope{BranchID: &own}.BranchForUpdate(&other), ErrForbidden))
}
