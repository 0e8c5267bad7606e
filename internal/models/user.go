// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	BaseModel
	Name        string        `json:"name" gorm:"size:150;not null"`
	Email       string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Role        Role          `json:"role" gorm:"type:varchar(20);not null;index"`
	BranchID    *uuid.UUID    `json:"branchId" gorm:"type:uuid;index"`
	Permissions PermissionMap `json:"permissions" gorm:"type:jsonb"`
	Active      bool          `json:"active" gorm:"not null"`
	LastLoginAt *time.Time    `json:"lastLoginAt"`

	// Relationships
	Branch *Branch `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:SET NULL"`
}

// Can reports whether the user may perform action on resource. Admins always
// can, whatever their stored map says.
func (u *User) Can(resource Resource, action Action) bool {
	if u == nil || !u.Active {
		return false
	}
	if u.Role.IsAdmin() {
		return resource.Valid() && action.Valid()
	}
	if !u.Role.Valid() {
		return false
	}
	return u.Permissions.Allows(resource, action)
}
