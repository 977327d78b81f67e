package cashier

import (
	"time"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRegisterInput contains input for adding a register to a branch
type CreateRegisterInput struct {
	BranchID     uuid.UUID
	Name         string
	DisplayOrder int
}

// OpenShiftInput contains input for opening a shift
type OpenShiftInput struct {
	BranchID      uuid.UUID
	RegisterID    uuid.UUID
	OperatorID    uuid.UUID
	OpeningAmount decimal.Decimal
}

// CloseShiftInput contains input for closing a shift
type CloseShiftInput struct {
	BranchID      uuid.UUID
	ShiftID       uuid.UUID
	OperatorID    uuid.UUID
	CountedAmount decimal.Decimal
	Notes         string
}

// ListShiftsInput narrows a shift listing
type ListShiftsInput struct {
	BranchID   uuid.UUID
	RegisterID *uuid.UUID
	Status     *cashier.ShiftStatus
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// RecordMovementInput contains input for recording a movement.
// Authorizer is the verified identity of the supervisor approving the
// movement, if any.
type RecordMovementInput struct {
	BranchID              uuid.UUID
	ShiftID               uuid.UUID
	Type                  cashier.MovementType
	Category              cashier.MovementCategory
	Amount                decimal.Decimal
	Concept               string
	PaymentMethod         cashier.PaymentMethod
	RecordedBy            uuid.UUID
	OperatorID            uuid.UUID
	Authorizer            *identity.OperatorIdentity
	SalaryAdvanceID       *uuid.UUID
	RequiresAuthorization bool
}

// CreateAdvanceInput contains input for a salary advance.
// ShiftID is required for cash advances; PaidBy defaults to the operator who
// opened that shift.
type CreateAdvanceInput struct {
	BranchID      uuid.UUID
	EmployeeID    uuid.UUID
	Amount        decimal.Decimal
	Reason        string
	PaymentMethod payroll.AdvancePaymentMethod
	Authorizer    identity.OperatorIdentity
	ShiftID       *uuid.UUID
	PaidBy        uuid.UUID
	CreatedBy     uuid.UUID
}

// ListAdvancesInput narrows an advance listing
type ListAdvancesInput struct {
	BranchID   uuid.UUID
	EmployeeID *uuid.UUID
	Status     *payroll.AdvanceStatus
	Page       int
	PageSize   int
}

// ListDiscrepanciesInput narrows the discrepancy history
type ListDiscrepanciesInput struct {
	BranchID   uuid.UUID
	OperatorID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// RegisterDTO represents a cash register
type RegisterDTO struct {
	ID           uuid.UUID `json:"id"`
	BranchID     uuid.UUID `json:"branch_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ShiftDTO represents a shift
type ShiftDTO struct {
	ID             uuid.UUID        `json:"id"`
	BranchID       uuid.UUID        `json:"branch_id"`
	RegisterID     uuid.UUID        `json:"register_id"`
	OpenedBy       uuid.UUID        `json:"opened_by"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	OpenedAt       time.Time        `json:"opened_at"`
	Status         string           `json:"status"`
	ClosedBy       *uuid.UUID       `json:"closed_by,omitempty"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	CountedAmount  *decimal.Decimal `json:"counted_amount,omitempty"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	Discrepancy    *decimal.Decimal `json:"discrepancy,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Version        int              `json:"version"`
}

// MovementDTO represents a ledger movement
type MovementDTO struct {
	ID                    uuid.UUID       `json:"id"`
	ShiftID               uuid.UUID       `json:"shift_id"`
	BranchID              uuid.UUID       `json:"branch_id"`
	Type                  string          `json:"type"`
	Category              string          `json:"category"`
	Amount                decimal.Decimal `json:"amount"`
	SignedAmount          decimal.Decimal `json:"signed_amount"`
	Concept               string          `json:"concept"`
	PaymentMethod         string          `json:"payment_method"`
	RecordedBy            uuid.UUID       `json:"recorded_by"`
	OperatorID            uuid.UUID       `json:"operator_id"`
	AuthorizedBy          *uuid.UUID      `json:"authorized_by,omitempty"`
	SalaryAdvanceID       *uuid.UUID      `json:"salary_advance_id,omitempty"`
	RequiresAuthorization bool            `json:"requires_authorization"`
	CreatedAt             time.Time       `json:"created_at"`
}

// SummaryLine is a movement with the expected balance after it
type SummaryLine struct {
	MovementDTO
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// ShiftSummaryDTO is a shift with its movements and derived balance
type ShiftSummaryDTO struct {
	Shift     ShiftDTO        `json:"shift"`
	Balance   cashier.Balance `json:"balance"`
	Movements []SummaryLine   `json:"movements"`
}

// CloseShiftResult is the reconciliation outcome of a close
type CloseShiftResult struct {
	ShiftID       uuid.UUID       `json:"shift_id"`
	Opening       decimal.Decimal `json:"opening"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	Expected      decimal.Decimal `json:"expected"`
	Counted       decimal.Decimal `json:"counted"`
	Discrepancy   decimal.Decimal `json:"discrepancy"`
	Outcome       string          `json:"outcome"` // EXACT, SHORTAGE or OVERAGE
	MovementCount int             `json:"movement_count"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// Reconciliation outcomes
const (
	OutcomeExact    = "EXACT"
	OutcomeShortage = "SHORTAGE"
	OutcomeOverage  = "OVERAGE"
)

// AdvanceDTO represents a salary advance
type AdvanceDTO struct {
	ID                uuid.UUID       `json:"id"`
	BranchID          uuid.UUID       `json:"branch_id"`
	EmployeeID        uuid.UUID       `json:"employee_id"`
	Amount            decimal.Decimal `json:"amount"`
	Reason            string          `json:"reason,omitempty"`
	PaymentMethod     string          `json:"payment_method"`
	Status            string          `json:"status"`
	AuthorizedBy      uuid.UUID       `json:"authorized_by"`
	AuthorizedAt      time.Time       `json:"authorized_at"`
	PaidBy            *uuid.UUID      `json:"paid_by,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	ShiftID           *uuid.UUID      `json:"shift_id,omitempty"`
	TransferredBy     *uuid.UUID      `json:"transferred_by,omitempty"`
	TransferredAt     *time.Time      `json:"transferred_at,omitempty"`
	TransferReference string          `json:"transfer_reference,omitempty"`
	DeductedAt        *time.Time      `json:"deducted_at,omitempty"`
	PayrollReference  string          `json:"payroll_reference,omitempty"`
	CancelledBy       *uuid.UUID      `json:"cancelled_by,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// DiscrepancyDTO represents a discrepancy history record
type DiscrepancyDTO struct {
	ID          uuid.UUID       `json:"id"`
	ShiftID     uuid.UUID       `json:"shift_id"`
	RegisterID  uuid.UUID       `json:"register_id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	OperatorID  uuid.UUID       `json:"operator_id"`
	Expected    decimal.Decimal `json:"expected"`
	Counted     decimal.Decimal `json:"counted"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
	ShiftDate   time.Time       `json:"shift_date"`
	ClosedAt    time.Time       `json:"closed_at"`
}

// ToRegisterDTO converts a domain register to its DTO
func ToRegisterDTO(r *cashier.CashRegister) RegisterDTO {
	return RegisterDTO{
		ID:           r.ID,
		BranchID:     r.BranchID,
		Name:         r.Name,
		DisplayOrder: r.DisplayOrder,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ToShiftDTO converts a domain shift to its DTO
func ToShiftDTO(s *cashier.CashRegisterShift) ShiftDTO {
	return ShiftDTO{
		ID:             s.ID,
		BranchID:       s.BranchID,
		RegisterID:     s.RegisterID,
		OpenedBy:       s.OpenedBy,
		OpeningAmount:  s.OpeningAmount,
		OpenedAt:       s.OpenedAt,
		Status:         string(s.Status),
		ClosedBy:       s.ClosedBy,
		ClosedAt:       s.ClosedAt,
		CountedAmount:  s.CountedAmount,
		ExpectedAmount: s.ExpectedAmount,
		Discrepancy:    s.Discrepancy,
		Notes:          s.Notes,
		Version:        s.Version,
	}
}

// ToMovementDTO converts a domain movement to its DTO
func ToMovementDTO(m *cashier.CashRegisterMovement) MovementDTO {
	return MovementDTO{
		ID:                    m.ID,
		ShiftID:               m.ShiftID,
		BranchID:              m.BranchID,
		Type:                  string(m.Type),
		Category:              string(m.Category),
		Amount:                m.Amount,
		SignedAmount:          m.SignedAmount(),
		Concept:               m.Concept,
		PaymentMethod:         string(m.PaymentMethod),
		RecordedBy:            m.RecordedBy,
		OperatorID:            m.OperatorID,
		AuthorizedBy:          m.AuthorizedBy,
		SalaryAdvanceID:       m.SalaryAdvanceID,
		RequiresAuthorization: m.RequiresAuthorization,
		CreatedAt:             m.CreatedAt,
	}
}

// ToAdvanceDTO converts a domain advance to its DTO
func ToAdvanceDTO(a *payroll.SalaryAdvance) AdvanceDTO {
	return AdvanceDTO{
		ID:                a.ID,
		BranchID:          a.BranchID,
		EmployeeID:        a.EmployeeID,
		Amount:            a.Amount,
		Reason:            a.Reason,
		PaymentMethod:     string(a.PaymentMethod),
		Status:            string(a.Status),
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
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		Version:           a.Version,
	}
}

// ToDiscrepancyDTO converts a discrepancy record to its DTO
func ToDiscrepancyDTO(r *cashier.DiscrepancyRecord) DiscrepancyDTO {
	return DiscrepancyDTO{
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
	}
}

func newCloseShiftResult(shift *cashier.CashRegisterShift, result cashier.ReconciliationResult) CloseShiftResult {
	return CloseShiftResult{
		ShiftID:       result.ShiftID,
		Opening:       result.Opening,
		TotalIncome:   result.TotalIncome,
		TotalExpense:  result.TotalExpense,
		Expected:      result.Expected,
		Counted:       result.Counted,
		Discrepancy:   result.Discrepancy,
		Outcome:       outcomeOf(result),
		MovementCount: result.MovementCount,
		ClosedAt:      shift.ClosedAt,
	}
}

func outcomeOf(result cashier.ReconciliationResult) string {
	switch {
	case result.IsShortage():
		return OutcomeShortage
	case result.IsOverage():
		return OutcomeOverage
	default:
		return OutcomeExact
	}
}

func mapSlice[S any, D any](items []S, convert func(*S) D) []D {
	out := make([]D, len(items))
	for i := range items {
		out[i] = convert(&items[i])
	}
	return out
}
