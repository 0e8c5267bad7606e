// internal/services/financial_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type FinancialService struct {
	db *gorm.DB
}

type CreateFinancialRequest struct {
	Type        models.FinancialType   `json:"type" validate:"required,oneof=income expense"`
	Category    string                 `json:"category" validate:"required,max=100"`
	Description string                 `json:"description" validate:"max=255"`
	Amount      float64                `json:"amount" validate:"gt=0"`
	Date        time.Time              `json:"date" validate:"required"`
	DueDate     *time.Time             `json:"dueDate"`
	Status      models.FinancialStatus `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	BranchID    *uuid.UUID             `json:"branchId"`
	ContractID  *uuid.UUID             `json:"contractId"`
}

type UpdateFinancialRequest struct {
	Type        *models.FinancialType   `json:"type" validate:"omitempty,oneof=income expense"`
	Category    *string                 `json:"category" validate:"omitempty,max=100"`
	Description *string                 `json:"description" validate:"omitempty,max=255"`
	Amount      *float64                `json:"amount" validate:"omitempty,gt=0"`
	Date        *time.Time              `json:"date"`
	DueDate     *time.Time              `json:"dueDate"`
	Status      *models.FinancialStatus `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	BranchID    *uuid.UUID              `json:"branchId"`
	ContractID  *uuid.UUID              `json:"contractId"`
}

var financialSortFields = []string{"transaction_date", "created_at", "amount", "category", "due_date"}

func NewFinancialService(db *gorm.DB) *FinancialService {
	return &FinancialService{db: db}
}

func (s *FinancialService) List(ctx context.Context, scope Scope, q ListQuery) (*utils.PaginationResult, error) {
	db := scope.Apply(s.db.WithContext(ctx).Model(&models.FinancialRecord{}), "branch_id")
	db = whereEqual(db, "type", q.Filter("type"))
	db = whereEqual(db, "status", q.Filter("status"))
	db = whereEqual(db, "category", q.Filter("category"))
	db = whereUUID(db, "branch_id", q.Filter("branchId"))
	db = whereDateRange(db, "transaction_date", q.Filter("startDate"), q.Filter("endDate"))
	db = utils.ApplySearch(db, q.Search, "description", "category")

	if q.Sort == "created_at" || q.Sort == "date" {
		q.Sort = "transaction_date"
	}

	records := []models.FinancialRecord{}
	result, err := paginate(db, q, financialSortFields, &records, "Branch")
	if err != nil {
		return nil, fmt.Errorf("failed to list financial records: %w", err)
	}
	return &result, nil
}

func (s *FinancialService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*models.FinancialRecord, error) {
	var record models.FinancialRecord
	err := scope.Apply(s.db.WithContext(ctx), "branch_id").
		Preload("Branch").Preload("Contract").
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("financial record", err)
	}
	return &record, nil
}

func checkContract(ctx context.Context, db *gorm.DB, scope Scope, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	var count int64
	err := scope.Apply(db.WithContext(ctx).Model(&models.Contract{}), "branch_id").
		Where("id = ?", *id).Count(&count).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return invalidField("contractId", "exists", "contract not found")
	}
	return nil
}

func (s *FinancialService) Create(ctx context.Context, scope Scope, req *CreateFinancialRequest) (*models.FinancialRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	branchID, err := scope.BranchForCreate(req.BranchID)
	if err != nil {
		return nil, err
	}
	if err := checkContract(ctx, s.db, scope, req.ContractID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.FinancialStatusPending
	}

	record := &models.FinancialRecord{
		Type:        req.Type,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Date:        req.Date.UTC(),
		DueDate:     utcPtr(req.DueDate),
		Status:      status,
		BranchID:    branchID,
		ContractID:  req.ContractID,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, writeError("financial record", err)
	}
	return s.Get(ctx, scope, record.ID)
}

func (s *FinancialService) Update(ctx context.Context, scope Scope, id uuid.UUID, req *UpdateFinancialRequest) (*models.FinancialRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	record, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.BranchForUpdate(req.BranchID); err != nil {
		return nil, err
	}
	if err := checkContract(ctx, s.db, scope, req.ContractID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if v := trimPtr(req.Category); v != nil {
		updates["category"] = *v
	}
	if v := trimPtr(req.Description); v != nil {
		updates["description"] = *v
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Date != nil {
		updates["transaction_date"] = req.Date.UTC()
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate.UTC()
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.BranchID != nil {
		updates["branch_id"] = *req.BranchID
	}
	if req.ContractID != nil {
		updates["contract_id"] = nullableUUID(*req.ContractID)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(record).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("financial record", err)
		}
	}

	return s.Get(ctx, scope, id)
}

func (s *FinancialService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	res := scope.Apply(s.db.WithContext(ctx), "branch_id").Delete(&models.FinancialRecord{}, "id = ?", id)
	if res.Error != nil {
		return deleteError("financial record", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: financial record", ErrNotFound)
	}
	return nil
}
