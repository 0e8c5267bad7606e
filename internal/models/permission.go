// internal/models/permission.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleAgent     Role = "agent"
	RoleAssistant Role = "assistant"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleAgent, RoleAssistant}

// ParseRole normalises case and whitespace. "user" is the legacy name of the
// agent role and is still found in older rows.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "manager":
		return RoleManager, true
	case "agent", "user":
		return RoleAgent, true
	case "assistant":
		return RoleAssistant, true
	}
	return Role(strings.ToLower(strings.TrimSpace(s))), false
}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role, ok := ParseRole(s)
	if !ok {
		return fmt.Errorf("unknown role %q", s)
	}
	*r = role
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// Scan normalises rows written with either casing. Unknown values are kept
// as-is and fail Valid, so they grant nothing.
func (r *Role) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*r = ""
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}
	*r, _ = ParseRole(s)
	return nil
}

type Resource string

const (
	ResourceBranches  Resource = "branches"
	ResourceEmployees Resource = "employees"
	ResourceLeads     Resource = "leads"
	ResourceContracts Resource = "contracts"
	ResourceFinancial Resource = "financial"
	ResourceSchedules Resource = "schedules"
	ResourceUsers     Resource = "users"
	ResourceDashboard Resource = "dashboard"
)

var Resources = []Resource{
	ResourceBranches, ResourceEmployees, ResourceLeads, ResourceContracts,
	ResourceFinancial, ResourceSchedules, ResourceUsers, ResourceDashboard,
}

func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

type Actions struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

func (a Actions) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return a.Create
	case ActionRead:
		return a.Read
	case ActionUpdate:
		return a.Update
	case ActionDelete:
		return a.Delete
	}
	return false
}

func (a Actions) any() bool {
	return a.Create || a.Read || a.Update || a.Delete
}

// PermissionMap is keyed by the closed resource set. Anything outside it is
// discarded when the map is decoded.
type PermissionMap map[Resource]Actions

func (p PermissionMap) Allows(resource Resource, action Action) bool {
	if p == nil || !resource.Valid() || !action.Valid() {
		return false
	}
	return p[resource].Allows(action)
}

func (p PermissionMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PermissionMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = PermissionMap{}
		return nil
	case []byte:
		return p.decode(v)
	case string:
		return p.decode([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into PermissionMap", value)
	}
}

func (p *PermissionMap) UnmarshalJSON(data []byte) error {
	return p.decode(data)
}

// decode reads a loosely typed document. Only literal booleans equal to true
// enable an action; strings such as "true" or numbers do not.
func (p *PermissionMap) decode(data []byte) error {
	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid permission map: %w", err)
	}

	out := PermissionMap{}
	for key, flags := range raw {
		resource := Resource(strings.ToLower(strings.TrimSpace(key)))
		if !resource.Valid() {
			continue
		}
		var actions Actions
		for name, v := range flags {
			enabled, ok := v.(bool)
			if !ok || !enabled {
				continue
			}
			switch Action(strings.ToLower(name)) {
			case ActionCreate:
				actions.Create = true
			case ActionRead:
				actions.Read = true
			case ActionUpdate:
				actions.Update = true
			case ActionDelete:
				actions.Delete = true
			}
		}
		if actions.any() {
			out[resource] = actions
		}
	}
	*p = out
	return nil
}

func FullAccess() PermissionMap {
	out := PermissionMap{}
	for _, r := range Resources {
		out[r] = Actions{Create: true, Read: true, Update: true, Delete: true}
	}
	return out
}

// DefaultPermissions is the starting map given to new users of a role. It is
// only a template; the stored map is what the gate checks.
func DefaultPermissions(role Role) PermissionMap {
	all := Actions{Create: true, Read: true, Update: true, Delete: true}
	rw := Actions{Create: true, Read: true, Update: true}
	ro := Actions{Read: true}

	switch role {
	case RoleAdmin:
		return FullAccess()
	case RoleManager:
		return PermissionMap{
			ResourceBranches:  ro,
			ResourceEmployees: all,
			ResourceLeads:     all,
			ResourceContracts: all,
			ResourceFinancial: all,
			ResourceSchedules: all,
			ResourceUsers:     ro,
			ResourceDashboard: ro,
		}
	case RoleAgent:
		return PermissionMap{
			ResourceLeads:     rw,
			ResourceContracts: rw,
			ResourceSchedules: all,
			ResourceDashboard: ro,
		}
	case RoleAssistant:
		return PermissionMap{
			ResourceLeads:     ro,
			ResourceContracts: ro,
			ResourceSchedules: rw,
		}
	}
	return PermissionMap{}
}
