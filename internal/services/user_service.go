// internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type CreateUserRequest struct {
	Name        string               `json:"name" validate:"required,min=2,max=150"`
	Email       string               `json:"email" validate:"required,email"`
	Role        models.Role          `json:"role" validate:"required,role"`
	BranchID    *uuid.UUID           `json:"branchId"`
	Permissions models.PermissionMap `json:"permissions"`
	Active      *bool                `json:"active"`
}

type UpdateUserRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=2,max=150"`
	Email       *string              `json:"email" validate:"omitempty,email"`
	Role        *models.Role         `json:"role" validate:"omitempty,role"`
	BranchID    *uuid.UUID           `json:"branchId"`
	Permissions models.PermissionMap `json:"permissions"`
	Active      *bool                `json:"active"`
}

var userSortFields = []string{"created_at", "name", "email", "role", "last_login_at"}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context, actor *models.User, q ListQuery) (*utils.PaginationResult, error) {
	db := ScopeFor(actor).Apply(s.db.WithContext(ctx).Model(&models.User{}), "branch_id")
	if role := q.Filter("role"); role != "" {
		parsed, _ := models.ParseRole(role)
		db = db.Where("role = ?", parsed)
	}
	db = whereUUID(db, "branch_id", q.Filter("branchId"))
	db = whereBool(db, "active", q.Filter("active"))
	db = utils.ApplySearch(db, q.Search, "name", "email")

	users := []models.User{}
	result, err := paginate(db, q, userSortFields, &users, "Branch")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &result, nil
}

func (s *UserService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := ScopeFor(actor).Apply(s.db.WithContext(ctx), "branch_id").
		Preload("Branch").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("user", err)
	}
	return &user, nil
}

// checkGrant stops a non-admin from handing out the admin role or any
// permission they do not hold themselves.
func checkGrant(actor *models.User, role models.Role, perms models.PermissionMap) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	if role.IsAdmin() {
		return fmt.Errorf("%w: only administrators can grant the admin role", ErrForbidden)
	}
	for resource, actions := range perms {
		for _, action := range []models.Action{models.ActionCreate, models.ActionRead, models.ActionUpdate, models.ActionDelete} {
			if actions.Allows(action) && !actor.Can(resource, action) {
				return fmt.Errorf("%w: cannot grant %s:%s", ErrForbidden, resource, action)
			}
		}
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, actor *models.User, req *CreateUserRequest) (*models.User, error) {
	normalizeEmail(&req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	role, _ := models.ParseRole(string(req.Role))
	perms := req.Permissions
	if perms == nil {
		perms = models.DefaultPermissions(role)
	}
	if role.IsAdmin() {
		perms = models.FullAccess()
	}
	if err := checkGrant(actor, role, perms); err != nil {
		return nil, err
	}

	// Administrators may exist without a branch; everyone else needs one.
	scope := ScopeFor(actor)
	branchID := req.BranchID
	if !(scope.All && role.IsAdmin()) {
		id, err := scope.BranchForCreate(req.BranchID)
		if err != nil {
			return nil, err
		}
		branchID = &id
	}

	user := &models.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       req.Email,
		Role:        role,
		BranchID:    branchID,
		Permissions: perms,
		Active:      boolOr(req.Active, true),
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, writeError("user email", err)
	}
	return s.Get(ctx, actor, user.ID)
}

func (s *UserService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.Role.IsAdmin() && !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: cannot modify an administrator", ErrForbidden)
	}
	if err := ScopeFor(actor).BranchForUpdate(req.BranchID); err != nil {
		return nil, err
	}

	role := user.Role
	if req.Role != nil {
		role, _ = models.ParseRole(string(*req.Role))
	}
	if err := checkGrant(actor, role, req.Permissions); err != nil {
		return nil, err
	}
	if actor.ID == id && req.Active != nil && !*req.Active {
		return nil, fmt.Errorf("%w: cannot deactivate yourself", ErrForbidden)
	}

	updates := map[string]interface{}{}
	if v := trimPtr(req.Name); v != nil {
		updates["name"] = *v
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		updates["role"] = role
		switch {
		case role.IsAdmin():
			updates["permissions"] = models.FullAccess()
		case user.Role.IsAdmin() && req.Permissions == nil:
			// A demoted admin must not keep the full map.
			updates["permissions"] = models.DefaultPermissions(role)
		}
	}
	if req.Permissions != nil && !role.IsAdmin() {
		updates["permissions"] = req.Permissions
	}
	if req.BranchID != nil {
		updates["branch_id"] = nullableUUID(*req.BranchID)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("user email", err)
		}
	}

	return s.Get(ctx, actor, id)
}

func (s *UserService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete yourself", ErrForbidden)
	}

	user, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if user.Role.IsAdmin() && !actor.Role.IsAdmin() {
		return fmt.Errorf("%w: cannot delete an administrator", ErrForbidden)
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return deleteError("user", err)
	}
	return nil
}
