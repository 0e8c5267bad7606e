// internal/models/contract.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Contract struct {
	BaseModel
	Number          string         `json:"number" gorm:"uniqueIndex;size:30;not null"`
	Type            ContractType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Status          ContractStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	ClientName      string         `json:"clientName" gorm:"size:150;not null"`
	ClientCPF       string         `json:"clientCpf" gorm:"column:client_cpf;size:11"`
	PropertyAddress JSONB          `json:"propertyAddress" gorm:"type:jsonb"`
	Value           float64        `json:"value" gorm:"type:decimal(14,2);not null"`
	Commission      float64        `json:"commission" gorm:"type:decimal(14,2)"`
	StartDate       *time.Time     `json:"startDate"`
	EndDate         *time.Time     `json:"endDate"`
	SignedAt        *time.Time     `json:"signedAt" gorm:"index"`
	BranchID        uuid.UUID      `json:"branchId" gorm:"type:uuid;not null;index"`
	EmployeeID      *uuid.UUID     `json:"employeeId" gorm:"type:uuid;index"`
	LeadID          *uuid.UUID     `json:"leadId" gorm:"type:uuid;index"`
	DocumentURL     string         `json:"documentUrl" gorm:"size:500"`

	// Relationships
	Branch   *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL"`
	Lead     *Lead     `json:"lead,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:SET NULL"`
}
