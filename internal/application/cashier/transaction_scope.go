package cashier

import (
	"context"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
)

// TransactionScope provides transactional access to the ledger repositories.
// All repository operations inside Execute belong to the same database
// transaction and are committed or rolled back together with the outbox
// events recorded through Events.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to one transaction.
//
// Row locks taken through ShiftRepo().FindByIDForUpdate hold until the
// transaction ends; movement writes and the close path serialize on them.
type TransactionalRepositories interface {
	RegisterRepo() cashier.CashRegisterRepository
	ShiftRepo() cashier.ShiftRepository
	MovementRepo() cashier.MovementRepository
	DiscrepancyRepo() cashier.DiscrepancyRepository
	AdvanceRepo() payroll.SalaryAdvanceRepository
	OperatorRepo() identity.OperatorRepository
	Events() shared.EventRecorder
}

// Repositories groups the ledger repositories for NoOpTransactionScope
type Repositories struct {
	Registers     cashier.CashRegisterRepository
	Shifts        cashier.ShiftRepository
	Movements     cashier.MovementRepository
	Discrepancies cashier.DiscrepancyRepository
	Advances      payroll.SalaryAdvanceRepository
	Operators     identity.OperatorRepository
	Events        shared.EventRecorder
}

// NoOpTransactionScope is a transaction scope that doesn't use transactions.
// This is useful for testing.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over repos
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RegisterRepo returns the register repository
func (s *NoOpTransactionScope) RegisterRepo() cashier.CashRegisterRepository { return s.repos.Registers }

// ShiftRepo returns the shift repository
func (s *NoOpTransactionScope) ShiftRepo() cashier.ShiftRepository { return s.repos.Shifts }

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() cashier.MovementRepository { return s.repos.Movements }

// DiscrepancyRepo returns the discrepancy repository
func (s *NoOpTransactionScope) DiscrepancyRepo() cashier.DiscrepancyRepository {
	return s.repos.Discrepancies
}

// AdvanceRepo returns the salary advance repository
func (s *NoOpTransactionScope) AdvanceRepo() payroll.SalaryAdvanceRepository { return s.repos.Advances }

// OperatorRepo returns the operator repository
func (s *NoOpTransactionScope) OperatorRepo() identity.OperatorRepository { return s.repos.Operators }

// Events returns the event recorder
func (s *NoOpTransactionScope) Events() shared.EventRecorder { return s.repos.Events }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

// eventSource is an aggregate holding pending domain events
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// recordEvents moves the pending events of sources into the transaction's outbox
func recordEvents(ctx context.Context, repos TransactionalRepositories, sources ...eventSource) error {
	var events []shared.DomainEvent
	for _, src := range sources {
		events = append(events, src.GetDomainEvents()...)
	}
	if len(events) == 0 {
		return nil
	}
	if err := repos.Events().Record(ctx, events...); err != nil {
		return err
	}
	for _, src := range sources {
		src.ClearDomainEvents()
	}
	return nil
}
