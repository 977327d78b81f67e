package identity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHasher keeps PINs readable so assertions stay simple
type plainHasher struct{}

func (plainHasher) Hash(pin string) (string, error) { return "h:" + pin, nil }
func (plainHasher) Compare(hash, pin string) bool { return hash == "h:"+pin }
func (plainHasher) Lookup(b uuid.UUID, pin string) string { return b.String() + ":" + pin }

func TestValidatePin(t *testing.T) {
	tests := []struct {
		pin   string
		valid bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"", false},
		{"١٢٣٤", false}, // non-ASCII digits
		{" 123", false},
	}
	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			err := ValidatePin(tt.pin)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidPin))
			}
		})
	}
}

func TestNewOperator(t *testing.T) {
	branchID := uuid.New()

	t.Run("creates active operator with hashed pin", func(t *testing.T) {
		op, err := NewOperator(branchID, "  Ana  ", RoleCashier, "4321", plainHasher{})

		require.NoError(t, err)
		assert.Equal(t, "Ana", op.Name)
		assert.Equal(t, OperatorStatusActive, op.Status)
		assert.Equal(t, "h:4321", op.PinHash)
		assert.Equal(t, branchID.String()+":4321", op.PinLookup)
		assert.Equal(t, 1, op.GetVersion())

		events := op.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*OperatorRegisteredEvent)
		assert.True(t, ok)
	})

	t.Run("rejects malformed pin", func(t *testing.T) {
		_, err := NewOperator(branchID, "Ana", RoleCashier, "43a1", plainHasher{})
		assert.True(t, errors.Is(err, ErrInvalidPin))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewOperator(branchID, "Ana", OperatorRole("OWNER"), "4321", plainHasher{})
		assert.Error(t, err)
	})

	t.Run("rejects empty name and nil branch", func(t *testing.T) {
		_, err := NewOperator(branchID, "   ", RoleCashier, "4321", plainHasher{})
		assert.Error(t, err)
		_, err = NewOperator(uuid.Nil, "Ana", RoleCashier, "4321", plainHasher{})
		assert.Error(t, err)
	})
}

func TestOperator_AssignPin(t *testing.T) {
	op, err := NewOperator(uuid.New(), "Luis", RoleSupervisor, "1111", plainHasher{})
	require.NoError(t, err)
	op.ClearDomainEvents()

	require.NoError(t, op.AssignPin("2222", plainHasher{}))
	assert.True(t, op.VerifyPin("2222", plainHasher{}))
	assert.False(t, op.VerifyPin("1111", plainHasher{}))
	assert.Equal(t, 2, op.GetVersion())
	require.Len(t, op.GetDomainEvents(), 1)

	assert.True(t, errors.Is(op.AssignPin("22", plainHasher{}), ErrInvalidPin))
	assert.True(t, op.VerifyPin("2222", plainHasher{}), "failed assignment keeps the old pin")
}

func TestOperator_Lifecycle(t *testing.T) {
	op, err := NewOperator(uuid.New(), "Marta", RoleManager, "9090", plainHasher{})
	require.NoError(t, err)

	require.NoError(t, op.EnsureActive())
	require.NoError(t, op.Deactivate())
	assert.NotNil(t, op.DeactivatedAt)
	assert.True(t, errors.Is(op.EnsureActive(), ErrOperatorInactive))
	assert.Error(t, op.Deactivate())

	require.NoError(t, op.Activate())
	assert.Nil(t, op.DeactivatedAt)
	assert.Error(t, op.Activate())
}

func TestOperatorIdentity_CanAuthorizeFor(t *testing.T) {
	branchID := uuid.New()
	cashier, err := NewOperator(branchID, "C", RoleCashier, "1000", plainHasher{})
	require.NoError(t, err)
	supervisor, err := NewOperator(branchID, "S", RoleSupervisor, "2000", plainHasher{})
	require.NoError(t, err)

	assert.False(t, cashier.Identity().CanAuthorizeFor(branchID))
	assert.True(t, supervisor.Identity().CanAuthorizeFor(branchID))
	assert.False(t, supervisor.Identity().CanAuthorizeFor(uuid.New()), "authorization is branch scoped")
	assert.False(t, OperatorIdentity{}.CanAuthorizeFor(branchID))
	assert.True(t, OperatorIdentity{}.IsZero())
}
