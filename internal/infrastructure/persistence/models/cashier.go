package models

import (
	"time"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegisterModel is the persistence model for the CashRegister aggregate
type CashRegisterModel struct {
	AggregateModel
	BranchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_registers_branch_name,priority:1"`
	Name         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_registers_branch_name,priority:2"`
	DisplayOrder int       `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CashRegisterModel) TableName() string {
	return "cash_registers"
}

// ToDomain converts the persistence model to a domain CashRegister
func (m *CashRegisterModel) ToDomain() *cashier.CashRegister {
	b := BranchAggregateModel{AggregateModel: m.AggregateModel, BranchID: m.BranchID}
	return &cashier.CashRegister{
		BranchAggregateRoot: b.ToDomainBranchAggregateRoot(),
		Name:                m.Name,
		DisplayOrder:        m.DisplayOrder,
		IsActive:            m.IsActive,
	}
}

// CashRegisterModelFromDomain creates a new persistence model from a domain CashRegister
func CashRegisterModelFromDomain(r *cashier.CashRegister) *CashRegisterModel {
	m := &CashRegisterModel{
		BranchID:     r.BranchID,
		Name:         r.Name,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// ShiftModel is the persistence model for the CashRegisterShift aggregate.
// At most one row per register may be OPEN.
type ShiftModel struct {
	BranchAggregateModel
	RegisterID     uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_shifts_one_open,where:status = 'OPEN'"`
	OpenedBy       uuid.UUID           `gorm:"type:uuid;not null"`
	OpeningAmount  decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	OpenedAt       time.Time           `gorm:"not null;index"`
	Status         cashier.ShiftStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ClosedBy       *uuid.UUID          `gorm:"type:uuid;index"`
	ClosedAt       *time.Time
	CountedAmount  *decimal.Decimal `gorm:"type:numeric(14,2)"`
	ExpectedAmount *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Discrepancy    *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Notes          string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ShiftModel) TableName() string {
	return "cash_register_shifts"
}

// ToDomain converts the persistence model to a domain CashRegisterShift
func (m *ShiftModel) ToDomain() *cashier.CashRegisterShift {
	return &cashier.CashRegisterShift{
		BranchAggregateRoot: m.ToDomainBranchAggregateRoot(),
		RegisterID:          m.RegisterID,
		OpenedBy:            m.OpenedBy,
		OpeningAmount:       m.OpeningAmount,
		OpenedAt:            m.OpenedAt,
		Status:              m.Status,
		ClosedBy:            m.ClosedBy,
		ClosedAt:            m.ClosedAt,
		CountedAmount:       m.CountedAmount,
		ExpectedAmount:      m.ExpectedAmount,
		Discrepancy:         m.Discrepancy,
		Notes:               m.Notes,
	}
}

// ShiftModelFromDomain creates a new persistence model from a domain CashRegisterShift
func ShiftModelFromDomain(s *cashier.CashRegisterShift) *ShiftModel {
	m := &ShiftModel{
		RegisterID:     s.RegisterID,
		OpenedBy:       s.OpenedBy,
		OpeningAmount:  s.OpeningAmount,
		OpenedAt:       s.OpenedAt,
		Status:         s.Status,
		ClosedBy:       s.ClosedBy,
		ClosedAt:       s.ClosedAt,
		CountedAmount:  s.CountedAmount,
		ExpectedAmount: s.ExpectedAmount,
		Discrepancy:    s.Discrepancy,
		Notes:          s.Notes,
	}
	m.FromDomainBranchAggregateRoot(s.BranchAggregateRoot)
	return m
}

// MovementModel is the persistence model for a CashRegisterMovement.
// A salary advance owns at most one movement, and only an authorized one.
type MovementModel struct {
	BranchAggregateModel
	ShiftID               uuid.UUID                `gorm:"type:uuid;not null;index:idx_movements_shift_created,priority:1"`
	Type                  cashier.MovementType     `gorm:"type:varchar(20);not null"`
	Category              cashier.MovementCategory `gorm:"type:varchar(30);not null"`
	Amount                decimal.Decimal          `gorm:"type:numeric(14,2);not null;check:chk_movements_amount_positive,amount > 0"`
	Concept               string                   `gorm:"type:varchar(255);not null"`
	PaymentMethod         cashier.PaymentMethod    `gorm:"type:varchar(20);not null"`
	RecordedBy            uuid.UUID                `gorm:"type:uuid;not null"`
	OperatorID            uuid.UUID                `gorm:"type:uuid;not null;index"`
	AuthorizedBy          *uuid.UUID               `gorm:"type:uuid"`
	SalaryAdvanceID       *uuid.UUID               `gorm:"type:uuid;uniqueIndex:idx_movements_salary_advance,where:salary_advance_id IS NOT NULL;check:chk_movements_advance_authorized,salary_advance_id IS NULL OR (requires_authorization AND authorized_by IS NOT NULL)"`
	RequiresAuthorization bool                     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (MovementModel) TableName() string {
	return "cash_register_movements"
}

// ToDomain converts the persistence model to a domain CashRegisterMovement
func (m *MovementModel) ToDomain() *cashier.CashRegisterMovement {
	return &cashier.CashRegisterMovement{
		BranchAggregateRoot:   m.ToDomainBranchAggregateRoot(),
		ShiftID:               m.ShiftID,
		Type:                  m.Type,
		Category:              m.Category,
		Amount:                m.Amount,
		Concept:               m.Concept,
		PaymentMethod:         m.PaymentMethod,
		RecordedBy:            m.RecordedBy,
		OperatorID:            m.OperatorID,
		AuthorizedBy:          m.AuthorizedBy,
		SalaryAdvanceID:       m.SalaryAdvanceID,
		RequiresAuthorization: m.RequiresAuthorization,
	}
}

// MovementModelFromDomain creates a new persistence model from a domain CashRegisterMovement
func MovementModelFromDomain(mv *cashier.CashRegisterMovement) *MovementModel {
	m := &MovementModel{
		ShiftID:               mv.ShiftID,
		Type:                  mv.Type,
		Category:              mv.Category,
		Amount:                mv.Amount,
		Concept:               mv.Concept,
		PaymentMethod:         mv.PaymentMethod,
		RecordedBy:            mv.RecordedBy,
		OperatorID:            mv.OperatorID,
		AuthorizedBy:          mv.AuthorizedBy,
		SalaryAdvanceID:       mv.SalaryAdvanceID,
		RequiresAuthorization: mv.RequiresAuthorization,
	}
	m.FromDomainBranchAggregateRoot(mv.BranchAggregateRoot)
	return m
}

// DiscrepancyRecordModel is the persistence model for the discrepancy history
type DiscrepancyRecordModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShiftID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_discrepancy_records_shift"`
	RegisterID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_discrepancy_records_branch_closed,priority:1"`
	OperatorID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Expected    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Counted     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Discrepancy decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ShiftDate   time.Time       `gorm:"type:date;not null"`
	ClosedAt    time.Time       `gorm:"not null;index:idx_discrepancy_records_branch_closed,priority:2"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DiscrepancyRecordModel) TableName() string {
	return "discrepancy_records"
}

// ToDomain converts the persistence model to a domain DiscrepancyRecord
func (m *DiscrepancyRecordModel) ToDomain() *cashier.DiscrepancyRecord {
	return &cashier.DiscrepancyRecord{
		ID:          m.ID,
		ShiftID:     m.ShiftID,
		RegisterID:  m.RegisterID,
		BranchID:    m.BranchID,
		OperatorID:  m.OperatorID,
		Expected:    m.Expected,
		Counted:     m.Counted,
		Discrepancy: m.Discrepancy,
		ShiftDate:   m.ShiftDate,
		ClosedAt:    m.ClosedAt,
		CreatedAt:   m.CreatedAt,
	}
}

// DiscrepancyRecordModelFromDomain creates a new persistence model from a domain DiscrepancyRecord
func DiscrepancyRecordModelFromDomain(r *cashier.DiscrepancyRecord) *DiscrepancyRecordModel {
	return &DiscrepancyRecordModel{
		ID:          r.ID,
		ShiftID:     r.ShiftID,
		RegisterID:  r.RegisterID,
		BranchID:    r.BranchID,
		OperatorID:  r.OperatorID,
		Expected:    r.Expected,
		Counted:     r.Counted,
		Discrepancy: r.Discrepancy,
		ShiftDate:   r.ShiftDate,
		ClosedAt:    r.ClosedAt,
		CreatedAt:   r.CreatedAt,
	}
}
