package persistence

import (
	"context"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShiftRepository implements ShiftRepository using GORM
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// FindByID finds a shift by its ID
func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.CashRegisterShift, error) {
	var model models.ShiftModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a shift and locks its row (SELECT ... FOR UPDATE).
// Must run inside a transaction for the lock to outlive the statement.
func (r *GormShiftRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*cashier.CashRegisterShift, error) {
	var model models.ShiftModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindOpenByRegister finds the register's open shift
func (r *GormShiftRepository) FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*cashier.CashRegisterShift, error) {
	var model models.ShiftModel
	if err := r.db.WithContext(ctx).
		Where("register_id = ? AND status = ?", registerID, cashier.ShiftStatusOpen).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists shifts matching the filter
func (r *GormShiftRepository) FindAll(ctx context.Context, filter cashier.ShiftFilter) ([]cashier.CashRegisterShift, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ShiftModel{}).Where("branch_id = ?", filter.BranchID)
	if filter.RegisterID != nil {
		query = query.Where("register_id = ?", *filter.RegisterID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("opened_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("opened_at < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ShiftModel
	if err := applyPaging(query, filter.Filter, ShiftSortFields, "opened_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	shifts := make([]cashier.CashRegisterShift, len(rows))
	for i := range rows {
		shifts[i] = *rows[i].ToDomain()
	}
	return shifts, total, nil
}

// Create inserts an open shift. A second open shift on the register
// violates idx_shifts_one_open and returns ErrRegisterAlreadyOpen.
func (r *GormShiftRepository) Create(ctx context.Context, shift *cashier.CashRegisterShift) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.ShiftModelFromDomain(shift)).Error)
}

// SaveClosed writes the closing fields only while the stored row is still OPEN
func (r *GormShiftRepository) SaveClosed(ctx context.Context, shift *cashier.CashRegisterShift) error {
	result := r.db.WithContext(ctx).
		Model(&models.ShiftModel{}).
		Where("id = ? AND status = ?", shift.ID, cashier.ShiftStatusOpen).
		Updates(map[string]interface{}{
			"status":          shift.Status,
			"closed_by":       shift.ClosedBy,
			"closed_at":       shift.ClosedAt,
			"counted_amount":  shift.CountedAmount,
			"expected_amount": shift.ExpectedAmount,
			"discrepancy":     shift.Discrepancy,
			"notes":           shift.Notes,
			"version":         shift.Version,
			"updated_at":      shift.UpdatedAt,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return cashier.ErrShiftAlreadyClosed
	}
	return nil
}

// Ensure GormShiftRepository implements ShiftRepository
var _ cashier.ShiftRepository = (*GormShiftRepository)(nil)

