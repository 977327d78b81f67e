package handler

import (
	"time"

	"github.com/erp/cashledger/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// VerifyOperatorRequest identifies an operator by PIN
// @Description Request body for PIN verification
type VerifyOperatorRequest struct {
	Pin string `json:"pin" binding:"required" example:"1234"`
}

// PinAvailabilityQuery checks a candidate PIN
type PinAvailabilityQuery struct {
	Pin       string `form:"pin" binding:"required"`
	ExcludeID string `form:"exclude_id" binding:"omitempty,uuid"`
}

// RegisterOperatorRequest adds an operator to the branch
// @Description Request body for registering an operator
type RegisterOperatorRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Lucía Pérez"`
	Role string `json:"role" binding:"required" example:"CASHIER" enums:"CASHIER,SUPERVISOR,MANAGER"`
	Pin  string `json:"pin" binding:"required" example:"4821"`
}

// AssignPinRequest replaces an operator's PIN
// @Description Request body for assigning a PIN
type AssignPinRequest struct {
	Pin string `json:"pin" binding:"required" example:"9134"`
}

// ListOperatorsQuery narrows an operator listing
type ListOperatorsQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Role   string `form:"role" binding:"omitempty,oneof=CASHIER SUPERVISOR MANAGER"`
}

// DateRangeQuery bounds a history or statistics query
type DateRangeQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// CreateRegisterRequest adds a register to the branch
// @Description Request body for creating a cash register
type CreateRegisterRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"Caja 1"`
	DisplayOrder int    `json:"display_order" binding:"min=0" example:"1"`
}

// ListRegistersQuery narrows a register listing
type ListRegistersQuery struct {
	dto.ListRequest
	ActiveOnly bool `form:"active_only"`
}

// OpenShiftRequest opens a shift on a register
// @Description Request body for opening a shift
type OpenShiftRequest struct {
	OperatorID    string          `json:"operator_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	OpeningAmount decimal.Decimal `json:"opening_amount" swaggertype:"string" example:"1000.00"`
}

// CloseShiftRequest closes a shift with the counted cash
// @Description Request body for closing a shift
type CloseShiftRequest struct {
	OperatorID    string          `json:"operator_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CountedAmount decimal.Decimal `json:"counted_amount" swaggertype:"string" example:"4900.00"`
	Notes         string          `json:"notes" binding:"max=500" example:"Two coins short in the 10 slot"`
}

// ReconcileRequest previews a close with a counted amount
// @Description Request body for a reconciliation preview
type ReconcileRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount" swaggertype:"string" example:"4900.00"`
}

// ListShiftsQuery narrows a shift listing
type ListShiftsQuery struct {
	dto.ListRequest
	DateRangeQuery
	RegisterID string `form:"register_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
}

// RecordMovementRequest records a movement on an open shift. AuthorizerPin is
// the PIN of the supervisor approving the movement, when one is needed.
// @Description Request body for recording a movement
type RecordMovementRequest struct {
	Type                  string          `json:"type" binding:"required" example:"EXPENSE" enums:"INCOME,EXPENSE"`
	Category              string          `json:"category" example:"SUPPLY_PURCHASE" enums:"SALE,MANUAL_INCOME,SUPPLY_PURCHASE,SALARY_ADVANCE,RELIEF,OTHER"`
	Amount                decimal.Decimal `json:"amount" swaggertype:"string" example:"800.00"`
	Concept               string          `json:"concept" binding:"max=255" example:"Bolsas y servilletas"`
	PaymentMethod         string          `json:"payment_method" example:"CASH" enums:"CASH,CARD,TRANSFER,OTHER"`
	OperatorID            string          `json:"operator_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	AuthorizerPin         string          `json:"authorizer_pin,omitempty" example:"2222"`
	RequiresAuthorization bool            `json:"requires_authorization" example:"false"`
}

// CreateAdvanceRequest grants a salary advance. The authorizer PIN is required.
// @Description Request body for creating a salary advance
type CreateAdvanceRequest struct {
	EmployeeID    string          `json:"employee_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440010"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"300.00"`
	Reason        string          `json:"reason" binding:"max=500" example:"Adelanto de quincena"`
	PaymentMethod string          `json:"payment_method" binding:"required" example:"CASH" enums:"CASH,TRANSFER"`
	AuthorizerPin string          `json:"authorizer_pin" binding:"required" example:"2222"`
	ShiftID       string          `json:"shift_id,omitempty" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440020"`
	PaidBy        string          `json:"paid_by,omitempty" binding:"omitempty,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// TransferAdvanceRequest confirms a bank transfer
// @Description Request body for marking an advance transferred
type TransferAdvanceRequest struct {
	OperatorID string `json:"operator_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Reference  string `json:"reference" binding:"max=100" example:"TRX-20260114-0042"`
}

// CancelAdvanceRequest cancels an advance
// @Description Request body for cancelling an advance
type CancelAdvanceRequest struct {
	OperatorID string `json:"operator_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// DeductAdvanceRequest records the payroll deduction of an advance
// @Description Request body for marking an advance deducted
type DeductAdvanceRequest struct {
	PayrollReference string `json:"payroll_reference" binding:"required,max=100" example:"NOM-2026-01-Q2"`
}

// ListAdvancesQuery narrows an advance listing
type ListAdvancesQuery struct {
	dto.ListRequest
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=CREATED PAID PENDING_TRANSFER TRANSFERRED DEDUCTED CANCELLED"`
}

// ListDiscrepanciesQuery narrows the discrepancy history
type ListDiscrepanciesQuery struct {
	dto.ListRequest
	DateRangeQuery
	OperatorID string `form:"operator_id" binding:"omitempty,uuid"`
}
