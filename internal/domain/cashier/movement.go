package cashier

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the direction of a cash movement
type MovementType string

const (
	MovementTypeIncome  MovementType = "INCOME"
	MovementTypeExpense MovementType = "EXPENSE"
)

// IsValid returns true if the type is a known value
func (t MovementType) IsValid() bool {
	return t == MovementTypeIncome || t == MovementTypeExpense
}

// Signed applies the type's sign to a positive amount
func (t MovementType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == MovementTypeExpense {
		return amount.Neg()
	}
	return amount
}

// MovementCategory classifies a movement for reporting only.
// No balance computation ever depends on it.
type MovementCategory string

const (
	CategorySale           MovementCategory = "SALE"
	CategoryManualIncome   MovementCategory = "MANUAL_INCOME"
	CategorySupplyPurchase MovementCategory = "SUPPLY_PURCHASE"
	CategorySalaryAdvance  MovementCategory = "SALARY_ADVANCE"
	CategoryRelief         MovementCategory = "RELIEF" // cash removed mid-shift for safekeeping
	CategoryOther          MovementCategory = "OTHER"
)

// IsValid returns true if the category is a known value
func (c MovementCategory) IsValid() bool {
	switch c {
	case CategorySale, CategoryManualIncome, CategorySupplyPurchase,
		CategorySalaryAdvance, CategoryRelief, CategoryOther:
		return true
	}
	return false
}

// defaultCategory is used when a caller records a movement without a category
func defaultCategory(t MovementType) MovementCategory {
	if t == MovementTypeIncome {
		return CategoryManualIncome
	}
	return CategoryOther
}

// PaymentMethod is how the money moved
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// IsValid returns true if the method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// MaxConceptLength caps the free-text concept
const MaxConceptLength = 255

// CashRegisterMovement is a signed cash event attached to exactly one shift.
// Movements are never edited; the only removal path is the cancellation of
// the salary advance that produced them.
type CashRegisterMovement struct {
	shared.BranchAggregateRoot
	ShiftID               uuid.UUID
	Type                  MovementType
	Category              MovementCategory
	Amount                decimal.Decimal
	Concept               string
	PaymentMethod         PaymentMethod
	RecordedBy            uuid.UUID
	OperatorID            uuid.UUID
	AuthorizedBy          *uuid.UUID
	SalaryAdvanceID       *uuid.UUID
	RequiresAuthorization bool
}

// MovementParams carries everything needed to record a movement.
// Authorizer must be set whenever RequiresAuthorization is true or the
// movement is linked to a salary advance.
type MovementParams struct {
	Type                  MovementType
	Category              MovementCategory
	Amount                decimal.Decimal
	Concept               string
	PaymentMethod         PaymentMethod
	RecordedBy            uuid.UUID
	OperatorID            uuid.UUID
	Authorizer            *identity.OperatorIdentity
	SalaryAdvanceID       *uuid.UUID
	RequiresAuthorization bool
}

// Normalize fills defaults and trims text
func (p MovementParams) Normalize() MovementParams {
	p.Concept = strings.TrimSpace(p.Concept)
	if p.Category == "" {
		p.Category = defaultCategory(p.Type)
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = PaymentMethodCash
	}
	if p.SalaryAdvanceID != nil {
		p.RequiresAuthorization = true
	}
	return p
}

// Validate checks the parameters that do not depend on the shift
func (p MovementParams) Validate() error {
	if !p.Type.IsValid() {
		return ErrInvalidMovementType
	}
	if err := shared.ValidatePositiveAmount(p.Amount); err != nil {
		return err
	}
	if !p.Category.IsValid() {
		return ErrInvalidCategory
	}
	if !p.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	if p.Concept == "" || utf8.RuneCountInString(p.Concept) > MaxConceptLength {
		return ErrInvalidConcept
	}
	if p.RecordedBy == uuid.Nil || p.OperatorID == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATOR", "Recorder and operator are required")
	}
	if (p.RequiresAuthorization || p.SalaryAdvanceID != nil) && (p.Authorizer == nil || p.Authorizer.IsZero()) {
		return ErrAuthorizationRequired
	}
	return nil
}

// NewMovement records a movement against shift. The shift must be open and
// any authorizer must be allowed to authorize in the shift's branch.
func NewMovement(shift *CashRegisterShift, params MovementParams) (*CashRegisterMovement, error) {
	p := params.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := shift.EnsureOpen(); err != nil {
		return nil, err
	}

	var authorizedBy *uuid.UUID
	if p.Authorizer != nil && !p.Authorizer.IsZero() {
		if !p.Authorizer.CanAuthorizeFor(shift.BranchID) {
			return nil, ErrAuthorizerNotPermitted
		}
		id := p.Authorizer.ID()
		authorizedBy = &id
	}

	m := &CashRegisterMovement{
		BranchAggregateRoot:   shared.NewBranchAggregateRoot(shift.BranchID),
		ShiftID:               shift.ID,
		Type:                  p.Type,
		Category:              p.Category,
		Amount:                p.Amount,
		Concept:               p.Concept,
		PaymentMethod:         p.PaymentMethod,
		RecordedBy:            p.RecordedBy,
		OperatorID:            p.OperatorID,
		AuthorizedBy:          authorizedBy,
		SalaryAdvanceID:       p.SalaryAdvanceID,
		RequiresAuthorization: p.RequiresAuthorization,
	}
	m.AddDomainEvent(NewMovementRecordedEvent(m))
	return m, nil
}

// SignedAmount is the movement's contribution to the shift balance
func (m *CashRegisterMovement) SignedAmount() decimal.Decimal {
	return m.Type.Signed(m.Amount)
}
