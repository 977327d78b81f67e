package identity

import (
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// PinLength is the exact number of digits of an operator PIN.
const PinLength = 4

// PinHasher turns a raw PIN into the two stored forms.
//
// Hash is a salted, slow hash used to verify a PIN. Lookup is a deterministic
// keyed digest scoped to the branch; it is what the unique index on active
// operators is built on, so two operators can never hold the same PIN.
type PinHasher interface {
	Hash(pin string) (string, error)
	Compare(hash, pin string) bool
	Lookup(branchID uuid.UUID, pin string) string
}

// ValidatePin checks that pin is exactly PinLength ASCII digits.
func ValidatePin(pin string) error {
	if len(pin) != PinLength {
		return ErrInvalidPin
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return ErrInvalidPin
		}
	}
	return nil
}

// Identity errors
var (
	ErrInvalidPin       = shared.NewDomainError("INVALID_PIN", "PIN must be exactly 4 digits")
	ErrOperatorNotFound = shared.NewDomainError("OPERATOR_NOT_FOUND", "No operator with that PIN in this branch")
	ErrOperatorInactive = shared.NewDomainError("OPERATOR_INACTIVE", "Operator has been deactivated")
	ErrPinInUse         = shared.NewConflictError("PIN_ALREADY_IN_USE", "PIN is already assigned to another active operator in this branch")
)
