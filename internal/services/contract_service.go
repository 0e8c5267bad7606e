// internal/services/contract_service.go
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

// contractNumberAttempts bounds retries when a generated number collides.
const contractNumberAttempts = 3

type ContractService struct {
	db             *gorm.DB
	storageService *StorageService
}

type CreateContractRequest struct {
	Number          string                `json:"number" validate:"omitempty,max=30"`
	Type            models.ContractType   `json:"type" validate:"required,oneof=sale rental management"`
	Status          models.ContractStatus `json:"status" validate:"omitempty,oneof=draft active completed cancelled"`
	ClientName      string                `json:"clientName" validate:"required,min=2,max=150"`
	ClientCPF       string                `json:"clientCpf" validate:"omitempty,cpf"`
	PropertyAddress models.JSONB          `json:"propertyAddress"`
	Value           float64               `json:"value" validate:"gt=0"`
	Commission      float64               `json:"commission" validate:"gte=0"`
	StartDate       *time.Time            `json:"startDate"`
	EndDate         *time.Time            `json:"endDate"`
	SignedAt        *time.Time            `json:"signedAt"`
	BranchID        *uuid.UUID            `json:"branchId"`
	EmployeeID      *uuid.UUID            `json:"employeeId"`
	LeadID          *uuid.UUID            `json:"leadId"`
}

type UpdateContractRequest struct {
	Type            *models.ContractType   `json:"type" validate:"omitempty,oneof=sale rental management"`
	Status          *models.ContractStatus `json:"status" validate:"omitempty,oneof=draft active completed cancelled"`
	ClientName      *string                `json:"clientName" validate:"omitempty,min=2,max=150"`
	ClientCPF       *string                `json:"clientCpf" validate:"omitempty,cpf"`
	PropertyAddress models.JSONB           `json:"propertyAddress"`
	Value           *float64               `json:"value" validate:"omitempty,gt=0"`
	Commission      *float64               `json:"commission" validate:"omitempty,gte=0"`
	StartDate       *time.Time             `json:"startDate"`
	EndDate         *time.Time             `json:"endDate"`
	SignedAt        *time.Time             `json:"signedAt"`
	BranchID        *uuid.UUID             `json:"branchId"`
	EmployeeID      *uuid.UUID             `json:"employeeId"`
	LeadID          *uuid.UUID             `json:"leadId"`
}

var contractSortFields = []string{"created_at", "number", "value", "signed_at", "status"}

func NewContractService(db *gorm.DB, storageService *StorageService) *ContractService {
	return &ContractService{
		db:             db,
		storageService: storageService,
	}
}

func (s *ContractService) List(ctx context.Context, scope Scope, q ListQuery) (*utils.PaginationResult, error) {
	db := scope.Apply(s.db.WithContext(ctx).Model(&models.Contract{}), "branch_id")
	db = whereEqual(db, "status", q.Filter("status"))
	db = whereEqual(db, "type", q.Filter("type"))
	db = whereUUID(db, "branch_id", q.Filter("branchId"))
	db = whereUUID(db, "employee_id", q.Filter("employeeId"))
	db = utils.ApplySearch(db, q.Search, "number", "client_name", "client_cpf")

	contracts := []models.Contract{}
	result, err := paginate(db, q, contractSortFields, &contracts, "Branch", "Employee")
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return &result, nil
}

func (s *ContractService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := scope.Apply(s.db.WithContext(ctx), "branch_id").
		Preload("Branch").Preload("Employee").Preload("Lead").
		First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("contract", err)
	}
	return &contract, nil
}

func checkLead(ctx context.Context, db *gorm.DB, scope Scope, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	var count int64
	err := scope.Apply(db.WithContext(ctx).Model(&models.Lead{}), "branch_id").
		Where("id = ?", *id).Count(&count).Error
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return invalidField("leadId", "exists", "lead not found")
	}
	return nil
}

func checkPeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return invalidField("endDate", "gtfield", "endDate must not be before startDate")
	}
	return nil
}

// Create stores the contract. When no number is supplied one is generated,
// and regenerated if the unique index reports a collision.
func (s *ContractService) Create(ctx context.Context, scope Scope, req *CreateContractRequest) (*models.Contract, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := checkPeriod(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	branchID, err := scope.BranchForCreate(req.BranchID)
	if err != nil {
		return nil, err
	}
	if err := checkEmployee(ctx, s.db, scope, "employeeId", req.EmployeeID); err != nil {
		return nil, err
	}
	if err := checkLead(ctx, s.db, scope, req.LeadID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.ContractStatusDraft
	}

	contract := &models.Contract{
		Number:          strings.ToUpper(strings.TrimSpace(req.Number)),
		Type:            req.Type,
		Status:          status,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientCPF:       utils.NormalizeCPF(req.ClientCPF),
		PropertyAddress: req.PropertyAddress,
		Value:           req.Value,
		Commission:      req.Commission,
		StartDate:       utcPtr(req.StartDate),
		EndDate:         utcPtr(req.EndDate),
		SignedAt:        utcPtr(req.SignedAt),
		BranchID:        branchID,
		EmployeeID:      req.EmployeeID,
		LeadID:          req.LeadID,
	}

	generated := contract.Number == ""
	for attempt := 1; ; attempt++ {
		if generated {
			number, err := utils.GenerateContractNumber(time.Now().UTC())
			if err != nil {
				return nil, fmt.Errorf("failed to generate contract number: %w", err)
			}
			contract.Number = number
		}

		contract.ID = uuid.Nil
		err := s.db.WithContext(ctx).Create(contract).Error
		if err == nil {
			break
		}
		if !generated || !isUniqueViolation(err) || attempt >= contractNumberAttempts {
			return nil, writeError("contract number", err)
		}
	}

	return s.Get(ctx, scope, contract.ID)
}

func (s *ContractService) Update(ctx context.Context, scope Scope, id uuid.UUID, req *UpdateContractRequest) (*models.Contract, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	contract, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.BranchForUpdate(req.BranchID); err != nil {
		return nil, err
	}

	start, end := contract.StartDate, contract.EndDate
	if req.StartDate != nil {
		start = req.StartDate
	}
	if req.EndDate != nil {
		end = req.EndDate
	}
	if err := checkPeriod(start, end); err != nil {
		return nil, err
	}
	if err := checkEmployee(ctx, s.db, scope, "employeeId", req.EmployeeID); err != nil {
		return nil, err
	}
	if err := checkLead(ctx, s.db, scope, req.LeadID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if v := trimPtr(req.ClientName); v != nil {
		updates["client_name"] = *v
	}
	if req.ClientCPF != nil {
		updates["client_cpf"] = utils.NormalizeCPF(*req.ClientCPF)
	}
	if req.PropertyAddress != nil {
		updates["property_address"] = req.PropertyAddress
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.Commission != nil {
		updates["commission"] = *req.Commission
	}
	if req.StartDate != nil {
		updates["start_date"] = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		updates["end_date"] = req.EndDate.UTC()
	}
	if req.SignedAt != nil {
		updates["signed_at"] = req.SignedAt.UTC()
	}
	if req.BranchID != nil {
		updates["branch_id"] = *req.BranchID
	}
	if req.EmployeeID != nil {
		updates["employee_id"] = nullableUUID(*req.EmployeeID)
	}
	if req.LeadID != nil {
		updates["lead_id"] = nullableUUID(*req.LeadID)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(contract).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("contract", err)
		}
	}

	return s.Get(ctx, scope, id)
}

func (s *ContractService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	res := scope.Apply(s.db.WithContext(ctx), "branch_id").Delete(&models.Contract{}, "id = ?", id)
	if res.Error != nil {
		return deleteError("contract", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: contract", ErrNotFound)
	}
	return nil
}

// UploadDocument attaches a signed document to the contract.
func (s *ContractService) UploadDocument(ctx context.Context, scope Scope, id uuid.UUID, upload *Upload) (*models.Contract, error) {
	contract, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storageService.Store(ctx, upload, "contracts/"+id.String(), DocumentTypes)
	if err != nil {
		return nil, err
	}

	previous := contract.DocumentURL
	if err := s.db.WithContext(ctx).Model(contract).Omit(clause.Associations).Update("document_url", url).Error; err != nil {
		s.storageService.Remove(ctx, url)
		return nil, fmt.Errorf("database error: %w", err)
	}
	if previous != "" {
		s.storageService.Remove(ctx, previous)
	}

	return s.Get(ctx, scope, id)
}

// DocumentURL returns a link the client can fetch the contract document from.
// Bucket objects get a short lived presigned URL.
func (s *ContractService) DocumentURL(ctx context.Context, scope Scope, id uuid.UUID, ttl time.Duration) (string, error) {
	contract, err := s.Get(ctx, scope, id)
	if err != nil {
		return "", err
	}
	if contract.DocumentURL == "" {
		return "", fmt.Errorf("contract document: %w", ErrNotFound)
	}
	return s.storageService.GeneratePresignedURL(contract.DocumentURL, ttl)
}
