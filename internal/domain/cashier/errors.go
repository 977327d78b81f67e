package cashier

import "github.com/erp/cashledger/internal/domain/shared"

// Ledger errors. Each names the precondition that was violated so the
// operator knows whether to retry, pick another register or escalate.
var (
	ErrRegisterNotFound       = shared.NewDomainError("REGISTER_NOT_FOUND", "Cash register not found")
	ErrRegisterInactive       = shared.NewDomainError("REGISTER_INACTIVE", "Cash register is disabled")
	ErrRegisterAlreadyOpen    = shared.NewConflictError("REGISTER_ALREADY_OPEN", "Register already has an open shift")
	ErrRegisterHasOpenShift   = shared.NewDomainError("REGISTER_HAS_OPEN_SHIFT", "Close the register's open shift before disabling it")
	ErrRegisterNameTaken      = shared.NewConflictError("REGISTER_NAME_TAKEN", "A register with that name already exists in this branch")
	ErrShiftNotFound          = shared.NewDomainError("SHIFT_NOT_FOUND", "Shift not found")
	ErrShiftAlreadyClosed     = shared.NewDomainError("SHIFT_ALREADY_CLOSED", "Shift is already closed")
	ErrShiftClosed            = shared.NewDomainError("SHIFT_CLOSED", "Shift is closed, its ledger can no longer change")
	ErrInvalidMovementType    = shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type must be INCOME or EXPENSE")
	ErrInvalidCategory        = shared.NewDomainError("INVALID_CATEGORY", "Unknown movement category")
	ErrInvalidPaymentMethod   = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	ErrInvalidConcept         = shared.NewDomainError("INVALID_CONCEPT", "Concept is required and cannot exceed 255 characters")
	ErrAuthorizationRequired  = shared.NewDomainError("AUTHORIZATION_REQUIRED", "This movement requires an authorizer")
	ErrAuthorizerNotPermitted = shared.NewDomainError("AUTHORIZER_NOT_PERMITTED", "Authorizer is not allowed to authorize movements in this branch")
	ErrShiftBranchMismatch    = shared.NewDomainError("SHIFT_BRANCH_MISMATCH", "Shift belongs to another branch")
)
