// internal/services/schedule_service.go
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

type ScheduleService struct {
	db *gorm.DB
}

type CreateScheduleRequest struct {
	Title       string                `json:"title" validate:"required,min=2,max=200"`
	Description string                `json:"description"`
	Type        models.ScheduleType   `json:"type" validate:"required,oneof=visit meeting call other"`
	Status      models.ScheduleStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	StartTime   time.Time             `json:"startTime" validate:"required"`
	EndTime     time.Time             `json:"endTime" validate:"required,gtfield=StartTime"`
	Location    string                `json:"location" validate:"max=255"`
	BranchID    *uuid.UUID            `json:"branchId"`
	EmployeeID  *uuid.UUID            `json:"employeeId"`
	LeadID      *uuid.UUID            `json:"leadId"`
}

type UpdateScheduleRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=2,max=200"`
	Description *string                `json:"description"`
	Type        *models.ScheduleType   `json:"type" validate:"omitempty,oneof=visit meeting call other"`
	Status      *models.ScheduleStatus `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	StartTime   *time.Time             `json:"startTime"`
	EndTime     *time.Time             `json:"endTime"`
	Location    *string                `json:"location" validate:"omitempty,max=255"`
	BranchID    *uuid.UUID             `json:"branchId"`
	EmployeeID  *uuid.UUID             `json:"employeeId"`
	LeadID      *uuid.UUID             `json:"leadId"`
}

var scheduleSortFields = []string{"start_time", "created_at", "title", "status"}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

func (s *ScheduleService) List(ctx context.Context, scope Scope, q ListQuery) (*utils.PaginationResult, error) {
	db := scope.Apply(s.db.WithContext(ctx).Model(&models.Schedule{}), "branch_id")
	db = whereEqual(db, "status", q.Filter("status"))
	db = whereEqual(db, "type", q.Filter("type"))
	db = whereUUID(db, "employee_id", q.Filter("employeeId"))
	db = whereDateRange(db, "start_time", q.Filter("from"), q.Filter("to"))
	db = utils.ApplySearch(db, q.Search, "title", "location")

	schedules := []models.Schedule{}
	result, err := paginate(db, q, scheduleSortFields, &schedules, "Branch", "Employee", "Lead")
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return &result, nil
}

func (s *ScheduleService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := scope.Apply(s.db.WithContext(ctx), "branch_id").
		Preload("Branch").Preload("Employee").Preload("Lead").
		First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, lookupError("schedule", err)
	}
	return &schedule, nil
}

func (s *ScheduleService) Create(ctx context.Context, scope Scope, req *CreateScheduleRequest) (*models.Schedule, error) {
	if err := validate(req); err != nil {
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
		status = models.ScheduleStatusScheduled
	}

	schedule := &models.Schedule{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        req.Type,
		Status:      status,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Location:    strings.TrimSpace(req.Location),
		BranchID:    branchID,
		EmployeeID:  req.EmployeeID,
		LeadID:      req.LeadID,
	}

	if err := s.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, writeError("schedule", err)
	}
	return s.Get(ctx, scope, schedule.ID)
}

func (s *ScheduleService) Update(ctx context.Context, scope Scope, id uuid.UUID, req *UpdateScheduleRequest) (*models.Schedule, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	schedule, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := scope.BranchForUpdate(req.BranchID); err != nil {
		return nil, err
	}

	start, end := schedule.StartTime, schedule.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if !end.After(start) {
		return nil, invalidField("endTime", "gtfield", "endTime must be after startTime")
	}
	if err := checkEmployee(ctx, s.db, scope, "employeeId", req.EmployeeID); err != nil {
		return nil, err
	}
	if err := checkLead(ctx, s.db, scope, req.LeadID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v := trimPtr(req.Title); v != nil {
		updates["title"] = *v
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.StartTime != nil {
		updates["start_time"] = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		updates["end_time"] = req.EndTime.UTC()
	}
	if v := trimPtr(req.Location); v != nil {
		updates["location"] = *v
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
		if err := s.db.WithContext(ctx).Model(schedule).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, writeError("schedule", err)
		}
	}

	return s.Get(ctx, scope, id)
}

func (s *ScheduleService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	res := scope.Apply(s.db.WithContext(ctx), "branch_id").Delete(&models.Schedule{}, "id = ?", id)
	if res.Error != nil {
		return deleteError("schedule", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: schedule", ErrNotFound)
	}
	return nil
}
