// internal/models/employee.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	BaseModel
	Name      string     `json:"name" gorm:"size:150;not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	CPF       string     `json:"cpf" gorm:"column:cpf;uniqueIndex;size:11;not null"`
	Phone     string     `json:"phone" gorm:"size:30"`
	Position  string     `json:"position" gorm:"size:100;index"`
	BranchID  uuid.UUID  `json:"branchId" gorm:"type:uuid;not null;index"`
	ManagerID *uuid.UUID `json:"managerId" gorm:"type:uuid;index"`
	HireDate  *time.Time `json:"hireDate"`
	Salary    float64    `json:"salary" gorm:"type:decimal(12,2)"`
	Active    bool       `json:"active" gorm:"not null"`
	PhotoURL  string     `json:"photoUrl" gorm:"size:500"`

	// Relationships
	Branch  *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	Manager *Employee `json:"manager,omitempty" gorm:"foreignKey:ManagerID;constraint:OnDelete:RESTRICT"`
}
