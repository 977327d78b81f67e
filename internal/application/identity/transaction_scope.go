package identity

import (
	"context"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
)

// TransactionScope runs operator writes in one database transaction so the
// row change and its outbox events commit together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(tx OperatorTransaction) error) error
}

// OperatorTransaction exposes the repositories bound to a running transaction
type OperatorTransaction interface {
	OperatorRepo() identity.OperatorRepository
	Events() shared.EventRecorder
}

// NoOpTransactionScope runs the function directly against the given
// repository. Used by tests.
type NoOpTransactionScope struct {
	operatorRepo identity.OperatorRepository
	events       shared.EventRecorder
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(operatorRepo identity.OperatorRepository, events shared.EventRecorder) *NoOpTransactionScope {
	return &NoOpTransactionScope{operatorRepo: operatorRepo, events: events}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(tx OperatorTransaction) error) error {
	return fn(s)
}

// OperatorRepo returns the operator repository
func (s *NoOpTransactionScope) OperatorRepo() identity.OperatorRepository {
	return s.operatorRepo
}

// Events returns the event recorder
func (s *NoOpTransactionScope) Events() shared.EventRecorder {
	return s.events
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ OperatorTransaction = (*NoOpTransactionScope)(nil)
