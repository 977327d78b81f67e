package cashier

import (
	"errors"
	"testing"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovement(t *testing.T) {
	t.Run("records income with defaults", func(t *testing.T) {
		s := newTestShift(t, "1000")
		m, err := NewMovement(s, movementParams(MovementTypeIncome, "5000"))

		require.NoError(t, err)
		assert.Equal(t, s.ID, m.ShiftID)
		assert.Equal(t, s.BranchID, m.BranchID)
		assert.Equal(t, CategoryManualIncome, m.Category)
		assert.Equal(t, PaymentMethodCash, m.PaymentMethod)
		assert.Nil(t, m.AuthorizedBy)
		assert.False(t, m.RequiresAuthorization)
		assert.True(t, m.SignedAmount().Equal(dec("5000")))
		require.Len(t, m.GetDomainEvents(), 1)
	})

	t.Run("expense has negative signed amount", func(t *testing.T) {
		m, err := NewMovement(newTestShift(t, "0"), movementParams(MovementTypeExpense, "800"))
		require.NoError(t, err)
		assert.Equal(t, CategoryOther, m.Category)
		assert.True(t, m.SignedAmount().Equal(dec("-800")))
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		for _, amount := range []string{"0", "-10", "0.001"} {
			_, err := NewMovement(newTestShift(t, "0"), movementParams(MovementTypeIncome, amount))
			assert.True(t, errors.Is(err, shared.ErrInvalidAmount), amount)
		}
	})

	t.Run("rejects unknown type category and method", func(t *testing.T) {
		s := newTestShift(t, "0")

		p := movementParams(MovementType("REFUND"), "1")
		_, err := NewMovement(s, p)
		assert.True(t, errors.Is(err, ErrInvalidMovementType))

		p = movementParams(MovementTypeIncome, "1")
		p.Category = "TIPS"
		_, err = NewMovement(s, p)
		assert.True(t, errors.Is(err, ErrInvalidCategory))

		p = movementParams(MovementTypeIncome, "1")
		p.PaymentMethod = "BITCOIN"
		_, err = NewMovement(s, p)
		assert.True(t, errors.Is(err, ErrInvalidPaymentMethod))
	})

	t.Run("requires concept", func(t *testing.T) {
		p := movementParams(MovementTypeIncome, "1")
		p.Concept = "   "
		_, err := NewMovement(newTestShift(t, "0"), p)
		assert.True(t, errors.Is(err, ErrInvalidConcept))
	})

	t.Run("advance link without authorizer fails", func(t *testing.T) {
		p := movementParams(MovementTypeExpense, "300")
		advanceID := uuid.New()
		p.SalaryAdvanceID = &advanceID
		_, err := NewMovement(newTestShift(t, "0"), p)
		assert.True(t, errors.Is(err, ErrAuthorizationRequired))
	})

	t.Run("explicit authorization flag without authorizer fails", func(t *testing.T) {
		p := movementParams(MovementTypeExpense, "300")
		p.RequiresAuthorization = true
		_, err := NewMovement(newTestShift(t, "0"), p)
		assert.True(t, errors.Is(err, ErrAuthorizationRequired))
	})

	t.Run("advance link with supervisor sets authorization fields", func(t *testing.T) {
		s := newTestShift(t, "0")
		p := movementParams(MovementTypeExpense, "300")
		advanceID := uuid.New()
		p.SalaryAdvanceID = &advanceID
		p.Category = CategorySalaryAdvance
		p.Authorizer = newIdentity(t, s.BranchID, identity.RoleSupervisor)

		m, err := NewMovement(s, p)
		require.NoError(t, err)
		assert.True(t, m.RequiresAuthorization)
		require.NotNil(t, m.AuthorizedBy)
		assert.Equal(t, p.Authorizer.ID(), *m.AuthorizedBy)
		assert.Equal(t, advanceID, *m.SalaryAdvanceID)
	})

	t.Run("cashier cannot authorize", func(t *testing.T) {
		s := newTestShift(t, "0")
		p := movementParams(MovementTypeExpense, "300")
		p.RequiresAuthorization = true
		p.Authorizer = newIdentity(t, s.BranchID, identity.RoleCashier)
		_, err := NewMovement(s, p)
		assert.True(t, errors.Is(err, ErrAuthorizerNotPermitted))
	})

	t.Run("authorizer from another branch is rejected", func(t *testing.T) {
		s := newTestShift(t, "0")
		p := movementParams(MovementTypeExpense, "300")
		p.RequiresAuthorization = true
		p.Authorizer = newIdentity(t, uuid.New(), identity.RoleManager)
		_, err := NewMovement(s, p)
		assert.True(t, errors.Is(err, ErrAuthorizerNotPermitted))
	})

	t.Run("closed shift rejects movements", func(t *testing.T) {
		s := newTestShift(t, "0")
		result, err := Reconcile(s, nil, dec("0"))
		require.NoError(t, err)
		require.NoError(t, s.Close(uuid.New(), result, ""))

		_, err = NewMovement(s, movementParams(MovementTypeIncome, "10"))
		assert.True(t, errors.Is(err, ErrShiftClosed))
	})

	t.Run("validation errors win over shift state", func(t *testing.T) {
		s := newTestShift(t, "0")
		result, err := Reconcile(s, nil, dec("0"))
		require.NoError(t, err)
		require.NoError(t, s.Close(uuid.New(), result, ""))

		_, err = NewMovement(s, movementParams(MovementTypeIncome, "0"))
		assert.True(t, errors.Is(err, shared.ErrInvalidAmount))
	})
}
