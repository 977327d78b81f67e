package persistence

import (
	"context"
	"testing"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCashRegisterRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCashRegisterRepository(db)
	branchID := uuid.New()

	newRegister := func(t *testing.T, name string, order int) *cashier.CashRegister {
		t.Helper()
		r, err := cashier.NewCashRegister(branchID, name, order)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, r))
		return r
	}

	t.Run("create and find by id", func(t *testing.T) {
		r := newRegister(t, "Caja principal", 1)

		found, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.ID, found.ID)
		assert.Equal(t, branchID, found.BranchID)
		assert.Equal(t, "Caja principal", found.Name)
		assert.True(t, found.IsActive)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate name in branch", func(t *testing.T) {
		newRegister(t, "Barra", 2)

		dup, err := cashier.NewCashRegister(branchID, "Barra", 3)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), cashier.ErrRegisterNameTaken)

		other, err := cashier.NewCashRegister(uuid.New(), "Barra", 1)
		require.NoError(t, err)
		assert.NoError(t, repo.Create(ctx, other), "names are scoped to the branch")
	})

	t.Run("save with optimistic locking", func(t *testing.T) {
		r := newRegister(t, "Terraza", 4)
		stale := *r

		require.NoError(t, r.Deactivate())
		require.NoError(t, repo.Save(ctx, r))

		found, err := repo.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.False(t, found.IsActive)
		assert.Equal(t, 2, found.Version)

		require.NoError(t, stale.Deactivate())
		assert.ErrorIs(t, repo.Save(ctx, &stale), shared.ErrConcurrencyConflict)
	})

	t.Run("list for branch", func(t *testing.T) {
		all, total, err := repo.FindAllForBranch(ctx, branchID, cashier.RegisterFilter{
			Filter: shared.Filter{Page: 1, PageSize: 10, OrderBy: "display_order", OrderDir: "asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, all, 3)
		assert.Equal(t, "Caja principal", all[0].Name)
		assert.Equal(t, "Terraza", all[2].Name)

		active, total, err := repo.FindAllForBranch(ctx, branchID, cashier.RegisterFilter{
			Filter:     shared.Filter{Page: 1, PageSize: 10},
			ActiveOnly: true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, active, 2)
	})
}
