// internal/models/lead.go
package models

import "github.com/google/uuid"

type Lead struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:150;not null"`
	Email        string     `json:"email" gorm:"size:255;index"`
	Phone        string     `json:"phone" gorm:"size:30"`
	Source       string     `json:"source" gorm:"size:50;index"`
	Status       LeadStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Interest     string     `json:"interest" gorm:"size:255"`
	Budget       float64    `json:"budget" gorm:"type:decimal(14,2)"`
	Notes        string     `json:"notes" gorm:"type:text"`
	BranchID     uuid.UUID  `json:"branchId" gorm:"type:uuid;not null;index"`
	AssignedToID *uuid.UUID `json:"assignedToId" gorm:"type:uuid;index"`

	// Relationships
	Branch     *Branch   `json:"branch,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT"`
	AssignedTo *Employee `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
}
