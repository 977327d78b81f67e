package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private shared-cache SQLite database with the ledger
// schema. One connection keeps every goroutine on the same in-memory store
// and serializes their transactions; the partial unique indexes are created
// exactly as in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// newMockDB returns a postgres-dialect GORM handle over sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func newTestHasher(t *testing.T) *auth.PinHasher {
	t.Helper()
	h, err := auth.NewPinHasher("persistence-test-pepper-0123456789", bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerFixture is a branch with one register and operators of each role
type ledgerFixture struct {
	db         *gorm.DB
	hasher     *auth.PinHasher
	branchID   uuid.UUID
	register   *cashier.CashRegister
	cashier    *identity.Operator
	supervisor *identity.Operator
}

func newLedgerFixture(t *testing.T, db *gorm.DB) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	f := &ledgerFixture{db: db, hasher: newTestHasher(t), branchID: uuid.New()}

	var err error
	f.register, err = cashier.NewCashRegister(f.branchID, "Caja 1", 1)
	require.NoError(t, err)
	require.NoError(t, NewGormCashRegisterRepository(db).Create(ctx, f.register))

	f.cashier = f.createOperator(t, "Lucia", identity.RoleCashier, "1111")
	f.supervisor = f.createOperator(t, "Marta", identity.RoleSupervisor, "2222")
	return f
}

func (f *ledgerFixture) createOperator(t *testing.T, name string, role identity.OperatorRole, pin string) *identity.Operator {
	t.Helper()
	op, err := identity.NewOperator(f.branchID, name, role, pin, f.hasher)
	require.NoError(t, err)
	require.NoError(t, NewGormOperatorRepository(f.db).Create(context.Background(), op))
	return op
}

// openShift stores an open shift on the fixture register
func (f *ledgerFixture) openShift(t *testing.T, opening string) *cashier.CashRegisterShift {
	t.Helper()
	shift, err := cashier.OpenShift(f.register, f.cashier.ID, dec(opening))
	require.NoError(t, err)
	require.NoError(t, NewGormShiftRepository(f.db).Create(context.Background(), shift))
	return shift
}

func (f *ledgerFixture) recordMovement(t *testing.T, shift *cashier.CashRegisterShift, typ cashier.MovementType, amount string) *cashier.CashRegisterMovement {
	t.Helper()
	m, err := cashier.NewMovement(shift, cashier.MovementParams{
		Type:       typ,
		Amount:     dec(amount),
		Concept:    "test movement",
		RecordedBy: f.cashier.ID,
		OperatorID: f.cashier.ID,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormMovementRepository(f.db).Create(context.Background(), m))
	return m
}
