// internal/models/schedule.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Schedule struct {
	BaseModel
	Title       string         `json:"title" gorm:"size:200;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Type        ScheduleType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Status      ScheduleStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	StartTime   time.Time      `json:"startTime" gorm:"not null;index"`
	EndTime     time.Time      `json:"endTime" gorm:"not null"`
	Location    string         `json:"location" gorm:"size:255"`
	BranchID    uuid.UUID      `json:"branchId" gorm:"type:uuid;not null;index"`
	EmployeeID  *uuid.UUID     `json:"employeeId" gorm:"type:uuid;index"`
	LeadID      *uuid.UUID     `json:"leadId" gorm:"type:uuid;index"`

	// Relationships
	Branch   *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL"`
	Lead     *Lead     `json:"lead,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:SET NULL"`
}
