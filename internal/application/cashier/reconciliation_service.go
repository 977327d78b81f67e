package cashier

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationService compares expected and counted cash and reports on
// the discrepancy history
type ReconciliationService struct {
	shiftRepo       cashier.ShiftRepository
	movementRepo    cashier.MovementRepository
	discrepancyRepo cashier.DiscrepancyRepository
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	shiftRepo cashier.ShiftRepository,
	movementRepo cashier.MovementRepository,
	discrepancyRepo cashier.DiscrepancyRepository,
) *ReconciliationService {
	return &ReconciliationService{
		shiftRepo:       shiftRepo,
		movementRepo:    movementRepo,
		discrepancyRepo: discrepancyRepo,
	}
}

// Reconcile previews the close of a shift for a counted amount. Nothing is written.
func (s *ReconciliationService) Reconcile(ctx context.Context, branchID, shiftID uuid.UUID, counted decimal.Decimal) (*CloseShiftResult, error) {
	shift, err := loadShift(ctx, s.shiftRepo, branchID, shiftID, false)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	result, err := cashier.Reconcile(shift, movements, counted)
	if err != nil {
		return nil, err
	}
	preview := newCloseShiftResult(shift, result)
	return &preview, nil
}

// GetOperatorAccuracy summarises the close accuracy of an operator over the
// optional date range
func (s *ReconciliationService) GetOperatorAccuracy(ctx context.Context, branchID, operatorID uuid.UUID, from, to *time.Time) (*cashier.AccuracyStats, error) {
	records, err := s.discrepancyRepo.FindByOperator(ctx, operatorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load discrepancy history: %w", err)
	}
	inBranch := records[:0]
	for _, r := range records {
		if r.BranchID == branchID {
			inBranch = append(inBranch, r)
		}
	}
	stats := cashier.ComputeAccuracy(operatorID, inBranch)
	return &stats, nil
}

// ListDiscrepancies lists the discrepancy history of a branch, newest first
func (s *ReconciliationService) ListDiscrepancies(ctx context.Context, input ListDiscrepanciesInput) (*shared.Paginated[DiscrepancyDTO], error) {
	filter := cashier.DiscrepancyFilter{
		Filter: shared.Filter{
			Page:     input.Page,
			PageSize: input.PageSize,
			OrderBy:  "closed_at",
			OrderDir: "desc",
		}.Normalize(),
		BranchID:   input.BranchID,
		OperatorID: input.OperatorID,
		From:       input.From,
		To:         input.To,
	}
	records, total, err := s.discrepancyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list discrepancies: %w", err)
	}
	result := shared.NewPaginated(mapSlice(records, ToDiscrepancyDTO), total, filter.Page, filter.PageSize)
	return &result, nil
}
