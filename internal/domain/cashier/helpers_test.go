package cashier

import (
	"testing"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testHasher struct{}

func (testHasher) Hash(pin string) (string, error) { return pin, nil }
func (testHasher) Compare(hash, pin string) bool { return hash == pin }
func (testHasher) Lookup(b uuid.UUID, pin string) string { return b.String() + pin }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestRegister(t *testing.T) *CashRegister {
	t.Helper()
	r, err := NewCashRegister(uuid.New(), "Caja 1", 1)
	require.NoError(t, err)
	return r
}

func newTestShift(t *testing.T, opening string) *CashRegisterShift {
	t.Helper()
	s, err := OpenShift(newTestRegister(t), uuid.New(), dec(opening))
	require.NoError(t, err)
	return s
}

func newIdentity(t *testing.T, branchID uuid.UUID, role identity.OperatorRole) *identity.OperatorIdentity {
	t.Helper()
	op, err := identity.NewOperator(branchID, "Op", role, "1234", testHasher{})
	require.NoError(t, err)
	id := op.Identity()
	return &id
}

func movementParams(typ MovementType, amount string) MovementParams {
	return MovementParams{
		Type:       typ,
		Amount:     dec(amount),
		Concept:    "test",
		RecordedBy: uuid.New(),
		OperatorID: uuid.New(),
	}
}
