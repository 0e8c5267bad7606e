// internal/services/lead_service.go
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

type LeadService struct {
	db *gorm.DB
}

type CreateLeadRequest struct {
	Name         string            `json:"name" validate:"required,min=2,max=150"`
	Email        string            `json:"email" validate:"omitempty,email"`
	Phone        string            `json:"phone" validate:"max=30"`
	Source       string            `json:"source" validate:"max=50"`
	Status       models.LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation won lost"`
	Interest     string            `json:"interest" validate:"max=255"`
	Budget       float64           `json:"budget" validate:"gte=0"`
	Notes        string            `json:"notes"`
	BranchID     *uuid.UUID        `json:"branchId"`
	AssignedToID *uuid.UUID        `json:"assignedToId"`
}

type UpdateLeadRequest struct {
	Name         *string            `json:"name" validate:"omitempty,min=2,max=150"`
	Email        *string            `json:"email" validate:"omitempty,email"`
	Phone        *string            `json:"phone" validate:"omitempty,max=30"`
	Source       *string            `json:"source" validate:"omitempty,max=50"`
	Status       *models.LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified proposal negotiation won lost"`
	Interest     *string            `json:"interest" validate:"omitempty,max=255"`
	Budget       *float64           `json:"budget" validate:"omitempty,gte=0"`
	Notes        *string            `json:"notes"`
	BranchID     *uuid.UUID         `json:"branchId"`
	AssignedToID *uuid.UUID         `json:"assignedToId"`
}

var leadSortFields = []string{"created_at", "updated_at", "name", "status", "budget"}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

func (s *LeadService) List(ctx context.Context, scope Scope, q ListQuery) (*utils.PaginationResult, error) {
	db := scope.Apply(s.db.WithContext(ctx).Model(&models.Lead{}), "branch_id")
	db = whereEqual(db, "status", q.Filter("status"))
	db = whereEqual(db, "source", q.Filter("source"))
	db = whereUUID(db, "branch_id", q.Filter("branchId"))
	db = whereUUID(db, "assigned_to_id", q.Filter("assignedTo"))
	db = utils.ApplySearch(db, q.Search, "name", "email", "phone", "interest")

	leads := []models.Lead{}
	result, err := paginate(db, q, leadSortFields, &leads, "Branch", "AssignedTo")
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return &result, nil
}

func (s *LeadService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := scope.Apply(s.db.WithContext(ctx), "branch_id").
		Preload("Branch").Preload("AssignedTo").
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("lead", err)
	}
	return &lead, nil
}

// checkEmployee makes sure a referenced employee exists inside scope.
func checkEmployee(ctx context.Context, db *gorm.DB, scope Scope, field string, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	var count int64
	err := scope.Apply(db.WithContext(ctx).Model(&models.Employee{}), "branch_id").
		Where("id = ?", *id).Count(&count).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return invalidField(field, "exists", "employee not found")
	}
	return nil
}

func (s *LeadService) Create(ctx context.Context, scope Scope, req *CreateLeadRequest) (*models.Lead, error) {
	normalizeEmail(&req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	branchID, err := scope.BranchForCreate(req.BranchID)
	if err != nil {
		return nil, err
	}
	if err := checkEmployee(ctx, s.db, scope, "assignedToId", req.AssignedToID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.LeadStatusNew
	}

	lead := &models.Lead{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		Source:       strings.TrimSpace(req.Source),
		Status:       status,
		Interest:     strings.TrimSpace(req.Interest),
		Budget:       req.Budget,
		Notes:        req.Notes,
		BranchID:     branchID,
		AssignedToID: req.AssignedToID,
	}

	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return nil, writeError("lead", err)
	}
	return s.Get(ctx, scope, lead.ID)
}

func (s *LeadService) Update(ctx context.Context, scope Scope, id uuid.UUID, req *UpdateLeadRequest) (*models.Lead, error) {
	normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	lead, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.BranchForUpdate(req.BranchID); err != nil {
		return nil, err
	}
	if err := checkEmployee(ctx, s.db, scope, "assignedToId", req.AssignedToID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v := trimPtr(req.Name); v != nil {
		updates["name"] = *v
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if v := trimPtr(req.Phone); v != nil {
		updates["phone"] = *v
	}
	if v := trimPtr(req.Source); v != nil {
		updates["source"] = *v
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if v := trimPtr(req.Interest); v != nil {
		updates["interest"] = *v
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.BranchID != nil {
		updates["branch_id"] = *req.BranchID
	}
	if req.AssignedToID != nil {
		updates["assigned_to_id"] = nullableUUID(*req.AssignedToID)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(lead).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("lead", err)
		}
	}

	return s.Get(ctx, scope, id)
}

func (s *LeadService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	res := scope.Apply(s.db.WithContext(ctx), "branch_id").Delete(&models.Lead{}, "id = ?", id)
	if res.Error != nil {
		return deleteError("lead", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: lead", ErrNotFound)
	}
	return nil
}
