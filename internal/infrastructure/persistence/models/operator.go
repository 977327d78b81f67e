package models

import (
	"time"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Unique index names the repositories translate into domain errors
const (
	IndexOperatorActivePin     = "idx_operators_active_pin"
	IndexRegisterBranchName    = "idx_registers_branch_name"
	IndexShiftOneOpen          = "idx_shifts_one_open"
	IndexMovementSalaryAdvance = "idx_movements_salary_advance"
	IndexDiscrepancyShift      = "idx_discrepancy_records_shift"
)

// OperatorModel is the persistence model for the Operator domain entity.
// Only active operators take part in the PIN uniqueness index.
type OperatorModel struct {
	AggregateModel
	BranchID      uuid.UUID               `gorm:"type:uuid;not null;index;uniqueIndex:idx_operators_active_pin,priority:1,where:status = 'ACTIVE'"`
	Name          string                  `gorm:"type:varchar(200);not null"`
	Role          identity.OperatorRole   `gorm:"type:varchar(20);not null"`
	Status        identity.OperatorStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	PinHash       string                  `gorm:"type:varchar(255);not null"`
	PinLookup     string                  `gorm:"type:varchar(64);not null;uniqueIndex:idx_operators_active_pin,priority:2"`
	DeactivatedAt *time.Time
}

// TableName returns the table name for GORM
func (OperatorModel) TableName() string {
	return "operators"
}

// ToDomain converts the persistence model to a domain Operator entity
func (m *OperatorModel) ToDomain() *identity.Operator {
	return &identity.Operator{
		BranchAggregateRoot: shared.BranchAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: m.BaseModel.ToDomain(),
				Version:    m.Version,
			},
			BranchID: m.BranchID,
		},
		Name:          m.Name,
		Role:          m.Role,
		Status:        m.Status,
		PinHash:       m.PinHash,
		PinLookup:     m.PinLookup,
		DeactivatedAt: m.DeactivatedAt,
	}
}

// FromDomain populates the persistence model from a domain Operator entity
func (m *OperatorModel) FromDomain(o *identity.Operator) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.BranchID = o.BranchID
	m.Name = o.Name
	m.Role = o.Role
	m.Status = o.Status
	m.PinHash = o.PinHash
	m.PinLookup = o.PinLookup
	m.DeactivatedAt = o.DeactivatedAt
}

// OperatorModelFromDomain creates a new persistence model from a domain Operator entity
func OperatorModelFromDomain(o *identity.Operator) *OperatorModel {
	m := &OperatorModel{}
	m.FromDomain(o)
	return m
}
