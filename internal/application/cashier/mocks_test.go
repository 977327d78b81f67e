package cashier

import (
	"context"
	"time"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRegisterRepository is a mock implementation of cashier.CashRegisterRepository
type MockRegisterRepository struct {
	mock.Mock
}

func (m *MockRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.CashRegister, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter cashier.RegisterFilter) ([]cashier.CashRegister, int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]cashier.CashRegister), args.Get(1).(int64), args.Error(2)
}

func (m *MockRegisterRepository) Create(ctx context.Context, register *cashier.CashRegister) error {
	return m.Called(ctx, register).Error(0)
}

func (m *MockRegisterRepository) Save(ctx context.Context, register *cashier.CashRegister) error {
	return m.Called(ctx, register).Error(0)
}

// MockShiftRepository is a mock implementation of cashier.ShiftRepository
type MockShiftRepository struct {
	mock.Mock
}

func (m *MockShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.CashRegisterShift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegisterShift), args.Error(1)
}

func (m *MockShiftRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*cashier.CashRegisterShift, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegisterShift), args.Error(1)
}

func (m *MockShiftRepository) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*cashier.CashRegisterShift, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegisterShift), args.Error(1)
}

func (m *MockShiftRepository) FindAll(ctx context.Context, filter cashier.ShiftFilter) ([]cashier.CashRegisterShift, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]cashier.CashRegisterShift), args.Get(1).(int64), args.Error(2)
}

func (m *MockShiftRepository) Create(ctx context.Context, shift *cashier.CashRegisterShift) error {
	return m.Called(ctx, shift).Error(0)
}

func (m *MockShiftRepository) SaveClosed(ctx context.Context, shift *cashier.CashRegisterShift) error {
	return m.Called(ctx, shift).Error(0)
}

// MockMovementRepository is a mock implementation of cashier.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *cashier.CashRegisterMovement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockMovementRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) ([]cashier.CashRegisterMovement, error) {
	args := m.Called(ctx, shiftID)
	return args.Get(0).([]cashier.CashRegisterMovement), args.Error(1)
}

func (m *MockMovementRepository) FindByAdvance(ctx context.Context, advanceID uuid.UUID) (*cashier.CashRegisterMovement, error) {
	args := m.Called(ctx, advanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.CashRegisterMovement), args.Error(1)
}

func (m *MockMovementRepository) CountByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, advanceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovementRepository) DeleteByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, advanceID)
	return args.Get(0).(int64), args.Error(1)
}

// MockDiscrepancyRepository is a mock implementation of cashier.DiscrepancyRepository
type MockDiscrepancyRepository struct {
	mock.Mock
}

func (m *MockDiscrepancyRepository) Create(ctx context.Context, record *cashier.DiscrepancyRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockDiscrepancyRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) (*cashier.DiscrepancyRecord, error) {
	args := m.Called(ctx, shiftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashier.DiscrepancyRecord), args.Error(1)
}

func (m *MockDiscrepancyRepository) FindByOperator(ctx context.Context, operatorID uuid.UUID, from, to *time.Time) ([]cashier.DiscrepancyRecord, error) {
	args := m.Called(ctx, operatorID, from, to)
	return args.Get(0).([]cashier.DiscrepancyRecord), args.Error(1)
}

func (m *MockDiscrepancyRepository) FindAll(ctx context.Context, filter cashier.DiscrepancyFilter) ([]cashier.DiscrepancyRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]cashier.DiscrepancyRecord), args.Get(1).(int64), args.Error(2)
}

// MockAdvanceRepository is a mock implementation of payroll.SalaryAdvanceRepository
type MockAdvanceRepository struct {
	mock.Mock
}

func (m *MockAdvanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryAdvance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.SalaryAdvance), args.Error(1)
}

func (m *MockAdvanceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.SalaryAdvance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.SalaryAdvance), args.Error(1)
}

func (m *MockAdvanceRepository) FindAll(ctx context.Context, filter payroll.AdvanceFilter) ([]payroll.SalaryAdvance, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]payroll.SalaryAdvance), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdvanceRepository) Create(ctx context.Context, advance *payroll.SalaryAdvance) error {
	return m.Called(ctx, advance).Error(0)
}

func (m *MockAdvanceRepository) Save(ctx context.Context, advance *payroll.SalaryAdvance) error {
	return m.Called(ctx, advance).Error(0)
}

// MockOperatorRepository is a mock implementation of identity.OperatorRepository
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Operator), args.Error(1)
}

func (m *MockOperatorRepository) FindByPinLookup(ctx context.Context, branchID uuid.UUID, lookup string) ([]identity.Operator, error) {
	args := m.Called(ctx, branchID, lookup)
	return args.Get(0).([]identity.Operator), args.Error(1)
}

func (m *MockOperatorRepository) ExistsActiveWithPin(ctx context.Context, branchID uuid.UUID, lookup string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, branchID, lookup, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOperatorRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter identity.OperatorFilter) ([]identity.Operator, int64, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]identity.Operator), args.Get(1).(int64), args.Error(2)
}

func (m *MockOperatorRepository) Create(ctx context.Context, op *identity.Operator) error {
	return m.Called(ctx, op).Error(0)
}

func (m *MockOperatorRepository) Save(ctx context.Context, op *identity.Operator) error {
	return m.Called(ctx, op).Error(0)
}

// MockEventRecorder is a mock implementation of shared.EventRecorder
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// eventTypes extracts the event types passed to every Record call
func (m *MockEventRecorder) eventTypes() []string {
	var types []string
	for _, call := range m.Calls {
		if call.Method != "Record" {
			continue
		}
		for _, e := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, e.EventType())
		}
	}
	return types
}

// testHasher keeps PINs readable in assertions
type testHasher struct{}

func (testHasher) Hash(pin string) (string, error) { return "h:" + pin, nil }
func (testHasher) Compare(hash, pin string) bool { return hash == "h:"+pin }
func (testHasher) Lookup(b uuid.UUID, pin string) string { return b.String() + ":" + pin }

// ledgerMocks bundles the mocks behind a NoOpTransactionScope
type ledgerMocks struct {
	registers     *MockRegisterRepository
	shifts        *MockShiftRepository
	movements     *MockMovementRepository
	discrepancies *MockDiscrepancyRepository
	advances      *MockAdvanceRepository
	operators     *MockOperatorRepository
	events        *MockEventRecorder
	scope         *NoOpTransactionScope
}

func newLedgerMocks() *ledgerMocks {
	m := &ledgerMocks{
		registers:     new(MockRegisterRepository),
		shifts:        new(MockShiftRepository),
		movements:     new(MockMovementRepository),
		discrepancies: new(MockDiscrepancyRepository),
		advances:      new(MockAdvanceRepository),
		operators:     new(MockOperatorRepository),
		events:        new(MockEventRecorder),
	}
	m.scope = NewNoOpTransactionScope(Repositories{
		Registers:     m.registers,
		Shifts:        m.shifts,
		Movements:     m.movements,
		Discrepancies: m.discrepancies,
		Advances:      m.advances,
		Operators:     m.operators,
		Events:        m.events,
	})
	m.events.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// operator registers an active operator with the operator mock
func (m *ledgerMocks) operator(branchID uuid.UUID, role identity.OperatorRole, pin string) *identity.Operator {
	op, err := identity.NewOperator(branchID, "Operator "+pin, role, pin, testHasher{})
	if err != nil {
		panic(err)
	}
	op.ClearDomainEvents()
	m.operators.On("FindByID", mock.Anything, op.ID).Return(op, nil).Maybe()
	return op
}

// openShift builds an open shift on a fresh register of branchID
func openShift(branchID uuid.UUID, operatorID uuid.UUID, opening string) *cashier.CashRegisterShift {
	register, err := cashier.NewCashRegister(branchID, "Caja 1", 1)
	if err != nil {
		panic(err)
	}
	shift, err := cashier.OpenShift(register, operatorID, mustDecimal(opening))
	if err != nil {
		panic(err)
	}
	shift.ClearDomainEvents()
	return shift
}
