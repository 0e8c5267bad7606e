// internal/models/financial.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type FinancialRecord struct {
	BaseModel
	Type        FinancialType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Category    string          `json:"category" gorm:"size:100;not null;index"`
	Description string          `json:"description" gorm:"size:255"`
	Amount      float64         `json:"amount" gorm:"type:decimal(14,2);not null"`
	Date        time.Time       `json:"date" gorm:"column:transaction_date;not null;index"`
	DueDate     *time.Time      `json:"dueDate"`
	Status      FinancialStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	BranchID    uuid.UUID       `json:"branchId" gorm:"type:uuid;not null;index"`
	ContractID  *uuid.UUID      `json:"contractId" gorm:"type:uuid;index"`

	// Relationships
	Branch   *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	Contract *Contract `json:"contract,omitempty" gorm:"foreignKey:ContractID;constraint:OnDelete:SET NULL"`
}
