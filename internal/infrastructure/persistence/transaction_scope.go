package persistence

import (
	"context"

	appcashier "github.com/erp/cashledger/internal/application/cashier"
	appidentity "github.com/erp/cashledger/internal/application/identity"
	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/event"
	"gorm.io/gorm"
)

// GormTransactionScope implements the ledger TransactionScope with GORM
// transactions. Repositories and the outbox recorder handed to fn share the
// transaction, so state changes and their events commit or roll back together.
type GormTransactionScope struct {
	db         *gorm.DB
	serializer *event.EventSerializer
	maxRetries int
}

// NewGormTransactionScope creates a new GormTransactionScope.
// maxRetries is stamped on every outbox entry; <= 0 keeps the default.
func NewGormTransactionScope(db *gorm.DB, serializer *event.EventSerializer, maxRetries int) *GormTransactionScope {
	return &GormTransactionScope{db: db, serializer: serializer, maxRetries: maxRetries}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcashier.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.bind(tx))
	})
}

// ExecuteOperator runs fn within a database transaction for operator writes
func (s *GormTransactionScope) ExecuteOperator(ctx context.Context, fn func(tx appidentity.OperatorTransaction) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.bind(tx))
	})
}

// OperatorScope adapts the scope to the identity service's TransactionScope
func (s *GormTransactionScope) OperatorScope() appidentity.TransactionScope {
	return operatorScope{s}
}

func (s *GormTransactionScope) bind(tx *gorm.DB) *gormTransactionalRepositories {
	return &gormTransactionalRepositories{
		tx:     tx,
		events: event.NewOutboxRecorder(s.serializer, event.NewGormOutboxRepository(tx), s.maxRetries),
	}
}

type operatorScope struct {
	scope *GormTransactionScope
}

func (o operatorScope) Execute(ctx context.Context, fn func(tx appidentity.OperatorTransaction) error) error {
	return o.scope.ExecuteOperator(ctx, fn)
}

// gormTransactionalRepositories provides the repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	events shared.EventRecorder
}

func (r *gormTransactionalRepositories) RegisterRepo() cashier.CashRegisterRepository {
	return NewGormCashRegisterRepository(r.tx)
}

func (r *gormTransactionalRepositories) ShiftRepo() cashier.ShiftRepository {
	return NewGormShiftRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() cashier.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) DiscrepancyRepo() cashier.DiscrepancyRepository {
	return NewGormDiscrepancyRepository(r.tx)
}

func (r *gormTransactionalRepositories) AdvanceRepo() payroll.SalaryAdvanceRepository {
	return NewGormSalaryAdvanceRepository(r.tx)
}

func (r *gormTransactionalRepositories) OperatorRepo() identity.OperatorRepository {
	return NewGormOperatorRepository(r.tx)
}

func (r *gormTransactionalRepositories) Events() shared.EventRecorder {
	return r.events
}

var (
	_ appcashier.TransactionScope          = (*GormTransactionScope)(nil)
	_ appcashier.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appidentity.TransactionScope         = operatorScope{}
	_ appidentity.OperatorTransaction      = (*gormTransactionalRepositories)(nil)
)
