package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":     RoleAdmin,
		"ADMIN":     RoleAdmin,
		" Manager ": RoleManager,
		"user":      RoleAgent,
		"Agent":     RoleAgent,
		"assistant": RoleAssistant,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseRole("Owner")
	assert.False(t, ok)
	assert.False(t, got.Valid())
}

func TestRoleJSONAndScan(t *testing.T) {
	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"MANAGER"`), &r))
	assert.Equal(t, RoleManager, r)
	assert.Error(t, json.Unmarshal([]byte(`"root"`), &r))

	require.NoError(t, r.Scan([]byte("USER")))
	assert.Equal(t, RoleAgent, r)

	require.NoError(t, r.Scan("superuser"))
	assert.False(t, r.Valid())
}

func TestPermissionMapOnlyLiteralTrueCounts(t *testing.T) {
	var p PermissionMap
	doc := `{
		"leads": {"read": true, "create": "true", "update": 1, "delete": false},
		"Contracts": {"read": true},
		"billing": {"read": true},
		"schedules": {"read": false}
	}`
	require.NoError(t, json.Unmarshal([]byte(doc), &p))

	assert.True(t, p.Allows(ResourceLeads, ActionRead))
	assert.False(t, p.Allows(ResourceLeads, ActionCreate))
	assert.False(t, p.Allows(ResourceLeads, ActionUpdate))
	assert.False(t, p.Allows(ResourceLeads, ActionDelete))
	assert.True(t, p.Allows(ResourceContracts, ActionRead))
	assert.NotContains(t, p, Resource("billing"))
	assert.NotContains(t, p, ResourceSchedules)
	assert.False(t, p.Allows(Resource("billing"), ActionRead))
}

func TestPermissionMapStorageRoundTrip(t *testing.T) {
	in := DefaultPermissions(RoleAgent)
	v, err := in.Value()
	require.NoError(t, err)

	var out PermissionMap
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	var empty PermissionMap
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}

func TestUserCan(t *testing.T) {
	branch := uuid.New()
	admin := &User{Role: RoleAdmin, Active: true}
	agent := &User{Role: RoleAgent, Active: true, BranchID: &branch, Permissions: DefaultPermissions(RoleAgent)}

	assert.True(t, admin.Can(ResourceFinancial, ActionDelete))
	assert.False(t, admin.Can(Resource("billing"), ActionRead))

	assert.True(t, agent.Can(ResourceLeads, ActionCreate))
	assert.False(t, agent.Can(ResourceLeads, ActionDelete))
	assert.False(t, agent.Can(ResourceFinancial, ActionRead))

	agent.Active = false
	assert.False(t, agent.Can(ResourceLeads, ActionRead))

	var nobody *User
	assert.False(t, nobody.Can(ResourceLeads, ActionRead))

	broken := &User{Role: Role("owner"), Active: true, Permissions: FullAccess()}
	assert.False(t, broken.Can(ResourceLeads, ActionRead))
}

func TestBaseModelAssignsID(t *testing.T) {
	var b BaseModel
	require.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, b.ID)

	id := b.ID
	require.NoError(t, b.BeforeCreate(nil))
	assert.Equal(t, id, b.ID)
}
