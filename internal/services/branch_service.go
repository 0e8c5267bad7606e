// internal/services/branch_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/imob-backoffice/internal/database"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type BranchService struct {
	db *gorm.DB
}

type CreateBranchRequest struct {
	Name    string       `json:"name" validate:"required,min=2,max=150"`
	Code    string       `json:"code" validate:"required,branch_code"`
	Address models.JSONB `json:"address"`
	Contact models.JSONB `json:"contact"`
	Active  *bool        `json:"active"`
}

type UpdateBranchRequest struct {
	Name    *string      `json:"name" validate:"omitempty,min=2,max=150"`
	Code    *string      `json:"code" validate:"omitempty,branch_code"`
	Address models.JSONB `json:"address"`
	Contact models.JSONB `json:"contact"`
	Active  *bool        `json:"active"`
}

var branchSortFields = []string{"created_at", "name", "code"}

func NewBranchService(db *gorm.DB) *BranchService {
	return &BranchService{db: db}
}

func normalizeBranchCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *BranchService) List(ctx context.Context, scope Scope, q ListQuery) (*utils.PaginationResult, error) {
	db := scope.Apply(s.db.WithContext(ctx).Model(&models.Branch{}), "id")
	db = whereBool(db, "active", q.Filter("active"))
	db = utils.ApplySearch(db, q.Search, "name", "code")

	branches := []models.Branch{}
	result, err := paginate(db, q, branchSortFields, &branches)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return &result, nil
}

func (s *BranchService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	err := scope.Apply(s.db.WithContext(ctx), "id").First(&branch, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("branch", err)
	}
	return &branch, nil
}

// Create is reserved to unrestricted scopes; a branch manager cannot open a
// branch they would then be unable to see.
func (s *BranchService) Create(ctx context.Context, scope Scope, req *CreateBranchRequest) (*models.Branch, error) {
	if !scope.All {
		return nil, fmt.Errorf("%w: only administrators can create branches", ErrForbidden)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	branch := &models.Branch{
		Name:    strings.TrimSpace(req.Name),
		Code:    normalizeBranchCode(req.Code),
		Address: req.Address,
		Contact: req.Contact,
		Active:  boolOr(req.Active, true),
	}

	if err := s.db.WithContext(ctx).Create(branch).Error; err != nil {
		return nil, writeError("branch code", err)
	}
	return branch, nil
}

func (s *BranchService) Update(ctx context.Context, scope Scope, id uuid.UUID, req *UpdateBranchRequest) (*models.Branch, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	branch, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		updates["code"] = normalizeBranchCode(*req.Code)
	}
	if req.Address != nil {
		updates["address"] = req.Address
	}
	if req.Contact != nil {
		updates["contact"] = req.Contact
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(branch).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("branch code", err)
		}
	}

	return s.Get(ctx, scope, id)
}

// Delete refuses while employees still belong to the branch. Users attached
// to it are detached by the foreign key.
func (s *BranchService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	if !scope.All {
		return fmt.Errorf("%w: only administrators can delete branches", ErrForbidden)
	}

	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var branch models.Branch
		if err := tx.First(&branch, "id = ?", id).Error; err != nil {
			return lookupError("branch", err)
		}

		var employees int64
		if err := tx.Model(&models.Employee{}).Where("branch_id = ?", id).Count(&employees).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if employees > 0 {
			return fmt.Errorf("%w: branch has %d employees", ErrHasDependents, employees)
		}

		if err := tx.Delete(&branch).Error; err != nil {
			return deleteError("branch", err)
		}
		return nil
	})
}
