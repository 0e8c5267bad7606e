// internal/services/scope.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/models"
)

// Scope limits queries to the rows a user may see. It is derived from the
// freshly loaded user on every request and never stored.
type Scope struct {
	All      bool
	BranchID *uuid.UUID
}

func ScopeFor(user *models.User) Scope {
	if user != nil && user.Role.IsAdmin() {
		return Scope{All: true}
	}
	if user == nil || user.BranchID == nil {
		return Scope{}
	}
	id := *user.BranchID
	return Scope{BranchID: &id}
}

// Apply restricts db to column = branch. A non-admin without a branch gets a
// predicate that matches nothing.
func (s Scope) Apply(db *gorm.DB, column string) *gorm.DB {
	if s.All {
		return db
	}
	if s.BranchID == nil {
		return db.Where("1 = 0")
	}
	return db.Where(column+" = ?", *s.BranchID)
}

func (s Scope) Contains(branchID uuid.UUID) bool {
	if s.All {
		return true
	}
	return s.BranchID != nil && *s.BranchID == branchID
}

// BranchForCreate picks the branch a new record lands in. Admins must name
// one; everyone else is pinned to their own.
func (s Scope) BranchForCreate(requested *uuid.UUID) (uuid.UUID, error) {
	if s.All {
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, invalidField("branchId", "required", "branchId is required")
		}
		return *requested, nil
	}
	if s.BranchID == nil {
		return uuid.Nil, ErrNoBranch
	}
	if requested != nil && *requested != uuid.Nil && *requested != *s.BranchID {
		return uuid.Nil, fmt.Errorf("%w: cannot write to another branch", ErrForbidden)
	}
	return *s.BranchID, nil
}

// BranchForUpdate checks a requested branch change on an existing record.
func (s Scope) BranchForUpdate(requested *uuid.UUID) error {
	if requested == nil || s.All {
		return nil
	}
	if !s.Contains(*requested) {
		return fmt.Errorf("%w: cannot move record to another branch", ErrForbidden)
	}
	return nil
}
