// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. IDs are generated in Go so the schema does
// not depend on a database side uuid function.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONB", value)
	}
}

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusProposal    LeadStatus = "proposal"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusWon         LeadStatus = "won"
	LeadStatusLost        LeadStatus = "lost"
)

var LeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposal,
	LeadStatusNegotiation, LeadStatusWon, LeadStatusLost,
}

type ContractType string

const (
	ContractTypeSale       ContractType = "sale"
	ContractTypeRental     ContractType = "rental"
	ContractTypeManagement ContractType = "management"
)

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
)

type FinancialType string

const (
	FinancialTypeIncome  FinancialType = "income"
	FinancialTypeExpense FinancialType = "expense"
)

type FinancialStatus string

const (
	FinancialStatusPending   FinancialStatus = "pending"
	FinancialStatusPaid      FinancialStatus = "paid"
	FinancialStatusOverdue   FinancialStatus = "overdue"
	FinancialStatusCancelled FinancialStatus = "cancelled"
)

type ScheduleType string

const (
	ScheduleTypeVisit   ScheduleType = "visit"
	ScheduleTypeMeeting ScheduleType = "meeting"
	ScheduleTypeCall    ScheduleType = "call"
	ScheduleTypeOther   ScheduleType = "other"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)
