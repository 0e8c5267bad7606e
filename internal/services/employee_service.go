// internal/services/employee_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/imob-backoffice/internal/database"
	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

type EmployeeService struct {
	db             *gorm.DB
	storageService *StorageService
}

type CreateEmployeeRequest struct {
	Name      string     `json:"name" validate:"required,min=2,max=150"`
	Email     string     `json:"email" validate:"required,email"`
	CPF       string     `json:"cpf" validate:"required,cpf"`
	Phone     string     `json:"phone" validate:"max=30"`
	Position  string     `json:"position" validate:"required,max=100"`
	BranchID  *uuid.UUID `json:"branchId"`
	ManagerID *uuid.UUID `json:"managerId"`
	HireDate  *time.Time `json:"hireDate"`
	Salary    float64    `json:"salary" validate:"gte=0"`
	Active    *bool      `json:"active"`
}

type UpdateEmployeeRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=2,max=150"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	CPF       *string    `json:"cpf" validate:"omitempty,cpf"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	Position  *string    `json:"position" validate:"omitempty,max=100"`
	BranchID  *uuid.UUID `json:"branchId"`
	ManagerID *uuid.UUID `json:"managerId"`
	HireDate  *time.Time `json:"hireDate"`
	Salary    *float64   `json:"salary" validate:"omitempty,gte=0"`
	Active    *bool      `json:"active"`
}

var employeeSortFields = []string{"created_at", "name", "position", "hire_date"}

func NewEmployeeService(db *gorm.DB, storageService *StorageService) *EmployeeService {
	return &EmployeeService{
		db:             db,
		storageService: storageService,
	}
}

func (s *EmployeeService) List(ctx context.Context, scope Scope, q ListQuery) (*utils.PaginationResult, error) {
	db := scope.Apply(s.db.WithContext(ctx).Model(&models.Employee{}), "branch_id")
	db = whereUUID(db, "branch_id", q.Filter("branchId"))
	db = whereEqual(db, "position", q.Filter("position"))
	db = whereBool(db, "active", q.Filter("active"))
	db = utils.ApplySearch(db, q.Search, "name", "email", "cpf", "position")

	employees := []models.Employee{}
	result, err := paginate(db, q, employeeSortFields, &employees, "Branch")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return &result, nil
}

func (s *EmployeeService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := scope.Apply(s.db.WithContext(ctx), "branch_id").
		Preload("Branch").Preload("Manager").
		First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("employee", err)
	}
	return &employee, nil
}

// checkManager makes sure a manager is visible in scope and is not the
// employee itself.
func (s *EmployeeService) checkManager(ctx context.Context, scope Scope, self uuid.UUID, managerID *uuid.UUID) error {
	if managerID == nil || *managerID == uuid.Nil {
		return nil
	}
	if *managerID == self {
		return invalidField("managerId", "self", "an employee cannot manage themselves")
	}
	if _, err := s.Get(ctx, scope, *managerID); err != nil {
		if errorsIsNotFound(err) {
			return invalidField("managerId", "exists", "manager not found")
		}
		return err
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, scope Scope, req *CreateEmployeeRequest) (*models.Employee, error) {
	normalizeEmail(&req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	branchID, err := scope.BranchForCreate(req.BranchID)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		CPF:       utils.NormalizeCPF(req.CPF),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		BranchID:  branchID,
		ManagerID: req.ManagerID,
		HireDate:  utcPtr(req.HireDate),
		Salary:    req.Salary,
		Active:    boolOr(req.Active, true),
	}
	employee.ID = uuid.New()

	if err := s.checkManager(ctx, scope, employee.ID, req.ManagerID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, writeError("employee email or CPF", err)
	}
	return s.Get(ctx, scope, employee.ID)
}

func (s *EmployeeService) Update(ctx context.Context, scope Scope, id uuid.UUID, req *UpdateEmployeeRequest) (*models.Employee, error) {
	normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	employee, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.BranchForUpdate(req.BranchID); err != nil {
		return nil, err
	}
	if err := s.checkManager(ctx, scope, id, req.ManagerID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v := trimPtr(req.Name); v != nil {
		updates["name"] = *v
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.CPF != nil {
		updates["cpf"] = utils.NormalizeCPF(*req.CPF)
	}
	if v := trimPtr(req.Phone); v != nil {
		updates["phone"] = *v
	}
	if v := trimPtr(req.Position); v != nil {
		updates["position"] = *v
	}
	if req.BranchID != nil {
		updates["branch_id"] = *req.BranchID
	}
	if req.ManagerID != nil {
		updates["manager_id"] = nullableUUID(*req.ManagerID)
	}
	if req.HireDate != nil {
		updates["hire_date"] = req.HireDate.UTC()
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(employee).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("employee email or CPF", err)
		}
	}

	return s.Get(ctx, scope, id)
}

// Delete refuses while other employees report to this one.
func (s *EmployeeService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		var employee models.Employee
		if err := scope.Apply(tx, "branch_id").First(&employee, "id = ?", id).Error; err != nil {
			return lookupError("employee", err)
		}

		var subordinates int64
		if err := tx.Model(&models.Employee{}).Where("manager_id = ?", id).Count(&subordinates).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if subordinates > 0 {
			return fmt.Errorf("%w: employee manages %d others", ErrHasDependents, subordinates)
		}

		if err := tx.Delete(&employee).Error; err != nil {
			return deleteError("employee", err)
		}
		return nil
	})
}

// UploadPhoto stores an image and records its URL on the employee. The
// previous photo is removed once the new URL is saved.
func (s *EmployeeService) UploadPhoto(ctx context.Context, scope Scope, id uuid.UUID, upload *Upload) (*models.Employee, error) {
	employee, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storageService.Store(ctx, upload, "employees/"+id.String(), ImageTypes)
	if err != nil {
		return nil, err
	}

	previous := employee.PhotoURL
	if err := s.db.WithContext(ctx).Model(employee).Omit(clause.Associations).Update("photo_url", url).Error; err != nil {
		s.storageService.Remove(ctx, url)
		return nil, fmt.Errorf("database error: %w", err)
	}
	if previous != "" {
		s.storageService.Remove(ctx, previous)
	}

	return s.Get(ctx, scope, id)
}
