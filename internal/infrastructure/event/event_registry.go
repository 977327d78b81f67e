package event

import (
	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
)

// RegisterAllEvents registers every ledger event with serializer.
// The outbox processor cannot deliver an entry whose type is missing here.
func RegisterAllEvents(serializer *EventSerializer) {
	// Registers and shifts
	serializer.Register(cashier.EventTypeRegisterCreated, &cashier.RegisterCreatedEvent{})
	serializer.Register(cashier.EventTypeRegisterStatusChanged, &cashier.RegisterStatusChangedEvent{})
	serializer.Register(cashier.EventTypeShiftOpened, &cashier.ShiftOpenedEvent{})
	serializer.Register(cashier.EventTypeShiftClosed, &cashier.ShiftClosedEvent{})

	// Movements
	serializer.Register(cashier.EventTypeMovementRecorded, &cashier.MovementRecordedEvent{})
	serializer.Register(cashier.EventTypeMovementDeleted, &cashier.MovementDeletedEvent{})

	// Salary advances
	serializer.Register(payroll.EventTypeAdvanceCreated, &payroll.AdvanceCreatedEvent{})
	serializer.Register(payroll.EventTypeAdvanceTransferred, &payroll.AdvanceTransferredEvent{})
	serializer.Register(payroll.EventTypeAdvanceCancelled, &payroll.AdvanceCancelledEvent{})
	serializer.Register(payroll.EventTypeAdvanceDeducted, &payroll.AdvanceDeductedEvent{})

	// Operators
	serializer.Register(identity.EventTypeOperatorRegistered, &identity.OperatorRegisteredEvent{})
	serializer.Register(identity.EventTypeOperatorPinAssigned, &identity.OperatorPinAssignedEvent{})
	serializer.Register(identity.EventTypeOperatorStatusChanged, &identity.OperatorStatusChangedEvent{})
}
