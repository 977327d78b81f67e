package models

import (
	"time"

	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryAdvanceModel is the persistence model for the SalaryAdvance aggregate
type SalaryAdvanceModel struct {
	BranchAggregateModel
	EmployeeID        uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal              `gorm:"type:numeric(14,2);not null;check:chk_salary_advances_amount_positive,amount > 0"`
	Reason            string                       `gorm:"type:varchar(500)"`
	PaymentMethod     payroll.AdvancePaymentMethod `gorm:"type:varchar(20);not null"`
	Status            payroll.AdvanceStatus        `gorm:"type:varchar(30);not null;index"`
	AuthorizedBy      uuid.UUID                    `gorm:"type:uuid;not null"`
	AuthorizedAt      time.Time                    `gorm:"not null"`
	PaidBy            *uuid.UUID                   `gorm:"type:uuid"`
	PaidAt            *time.Time
	ShiftID           *uuid.UUID `gorm:"type:uuid;index"`
	TransferredBy     *uuid.UUID `gorm:"type:uuid"`
	TransferredAt     *time.Time
	TransferReference string     `gorm:"type:varchar(100)"`
	DeductedAt        *time.Time
	PayrollReference  string     `gorm:"type:varchar(100)"`
	CancelledBy       *uuid.UUID `gorm:"type:uuid"`
	CancelledAt       *time.Time
	CreatedBy         uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (SalaryAdvanceModel) TableName() string {
	return "salary_advances"
}

// ToDomain converts the persistence model to a domain SalaryAdvance
func (m *SalaryAdvanceModel) ToDomain() *payroll.SalaryAdvance {
	return &payroll.SalaryAdvance{
		BranchAggregateRoot: m.ToDomainBranchAggregateRoot(),
		EmployeeID:          m.EmployeeID,
		Amount:              m.Amount,
		Reason:              m.Reason,
		PaymentMethod:       m.PaymentMethod,
		Status:              m.Status,
		AuthorizedBy:        m.AuthorizedBy,
		AuthorizedAt:        m.AuthorizedAt,
		PaidBy:              m.PaidBy,
		PaidAt:              m.PaidAt,
		ShiftID:             m.ShiftID,
		TransferredBy:       m.TransferredBy,
		TransferredAt:       m.TransferredAt,
		TransferReference:   m.TransferReference,
		DeductedAt:          m.DeductedAt,
		PayrollReference:    m.PayrollReference,
		CancelledBy:         m.CancelledBy,
		CancelledAt:         m.CancelledAt,
		CreatedBy:           m.CreatedBy,
	}
}

// SalaryAdvanceModelFromDomain creates a new persistence model from a domain SalaryAdvance
func SalaryAdvanceModelFromDomain(a *payroll.SalaryAdvance) *SalaryAdvanceModel {
	m := &SalaryAdvanceModel{
		EmployeeID:        a.EmployeeID,
		Amount:            a.Amount,
		Reason:            a.Reason,
		PaymentMethod:     a.PaymentMethod,
		Status:            a.Status,
		AuthorizedBy:      a.AuthorizedBy,
		AuthorizedAt:      a.AuthorizedAt,
		PaidBy:            a.PaidBy,
		PaidAt:            a.PaidAt,
		ShiftID:           a.ShiftID,
		TransferredBy:     a.TransferredBy,
		TransferredAt:     a.TransferredAt,
		TransferReference: a.TransferReference,
		DeductedAt:        a.DeductedAt,
		PayrollReference:  a.PayrollReference,
		CancelledBy:       a.CancelledBy,
		CancelledAt:       a.CancelledAt,
		CreatedBy:         a.CreatedBy,
	}
	m.FromDomainBranchAggregateRoot(a.BranchAggregateRoot)
	return m
}
