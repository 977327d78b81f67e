package identity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// OperatorRole determines what an operator may do at a register
type OperatorRole string

const (
	RoleCashier    OperatorRole = "CASHIER"
	RoleSupervisor OperatorRole = "SUPERVISOR"
	RoleManager    OperatorRole = "MANAGER"
)

// IsValid returns true if the role is a known value
func (r OperatorRole) IsValid() bool {
	switch r {
	case RoleCashier, RoleSupervisor, RoleManager:
		return true
	}
	return false
}

// CanAuthorize reports whether the role may authorize movements that require it
func (r OperatorRole) CanAuthorize() bool {
	return r == RoleSupervisor || r == RoleManager
}

// OperatorStatus represents the status of an operator
type OperatorStatus string

const (
	OperatorStatusActive   OperatorStatus = "ACTIVE"
	OperatorStatusInactive OperatorStatus = "INACTIVE"
)

// IsValid returns true if the status is a known value
func (s OperatorStatus) IsValid() bool {
	return s == OperatorStatusActive || s == OperatorStatusInactive
}

// Operator is an employee allowed to operate the registers of one branch.
// It is identified at the register by a 4-digit PIN unique among the
// branch's active operators.
type Operator struct {
	shared.BranchAggregateRoot
	Name          string
	Role          OperatorRole
	Status        OperatorStatus
	PinHash       string
	PinLookup     string
	DeactivatedAt *time.Time
}

// NewOperator creates an active operator holding pin
func NewOperator(branchID uuid.UUID, name string, role OperatorRole, pin string, hasher PinHasher) (*Operator, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Operator name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Operator name cannot exceed 200 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be CASHIER, SUPERVISOR or MANAGER")
	}

	op := &Operator{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		Name:                name,
		Role:                role,
		Status:              OperatorStatusActive,
	}
	if err := op.applyPin(pin, hasher); err != nil {
		return nil, err
	}

	op.AddDomainEvent(NewOperatorRegisteredEvent(op))
	return op, nil
}

// AssignPin replaces the operator's PIN
func (o *Operator) AssignPin(pin string, hasher PinHasher) error {
	if err := o.applyPin(pin, hasher); err != nil {
		return err
	}
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOperatorPinAssignedEvent(o))
	return nil
}

func (o *Operator) applyPin(pin string, hasher PinHasher) error {
	if err := ValidatePin(pin); err != nil {
		return err
	}
	hash, err := hasher.Hash(pin)
	if err != nil {
		return shared.NewDomainError("PIN_HASH_ERROR", "Failed to hash PIN")
	}
	o.PinHash = hash
	o.PinLookup = hasher.Lookup(o.BranchID, pin)
	return nil
}

// VerifyPin checks pin against the stored hash
func (o *Operator) VerifyPin(pin string, hasher PinHasher) bool {
	if o.PinHash == "" {
		return false
	}
	return hasher.Compare(o.PinHash, pin)
}

// IsActive returns true if the operator may act on registers
func (o *Operator) IsActive() bool {
	return o.Status == OperatorStatusActive
}

// Deactivate removes the operator from active duty. The PIN is released for
// reuse by other operators of the branch.
func (o *Operator) Deactivate() error {
	if !o.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Operator is already inactive")
	}
	now := time.Now()
	o.Status = OperatorStatusInactive
	o.DeactivatedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewOperatorStatusChangedEvent(o))
	return nil
}

// Activate returns the operator to active duty
func (o *Operator) Activate() error {
	if o.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Operator is already active")
	}
	o.Status = OperatorStatusActive
	o.DeactivatedAt = nil
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOperatorStatusChangedEvent(o))
	return nil
}

// EnsureActive returns ErrOperatorInactive for deactivated operators
func (o *Operator) EnsureActive() error {
	if !o.IsActive() {
		return ErrOperatorInactive
	}
	return nil
}

// Identity returns the operator as an acting identity
func (o *Operator) Identity() OperatorIdentity {
	return OperatorIdentity{
		id:       o.ID,
		branchID: o.BranchID,
		name:     o.Name,
		role:     o.Role,
	}
}

// OperatorIdentity is the verified identity of an operator, passed to ledger
// operations as proof of who is acting. Its fields are unexported so that an
// identity can only come from an Operator that was loaded or verified.
type OperatorIdentity struct {
	id       uuid.UUID
	branchID uuid.UUID
	name     string
	role     OperatorRole
}

// ID returns the operator ID
func (i OperatorIdentity) ID() uuid.UUID { return i.id }

// BranchID returns the operator's branch
func (i OperatorIdentity) BranchID() uuid.UUID { return i.branchID }

// Name returns the operator's display name
func (i OperatorIdentity) Name() string { return i.name }

// Role returns the operator's role
func (i OperatorIdentity) Role() OperatorRole { return i.role }

// IsZero is true for the zero identity
func (i OperatorIdentity) IsZero() bool { return i.id == uuid.Nil }

// CanAuthorizeFor reports whether the identity may authorize writes in branchID
func (i OperatorIdentity) CanAuthorizeFor(branchID uuid.UUID) bool {
	return !i.IsZero() && i.branchID == branchID && i.role.CanAuthorize()
}
