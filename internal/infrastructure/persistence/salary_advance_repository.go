package persistence

import (
	"context"

	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalaryAdvanceRepository implements SalaryAdvanceRepository using GORM
type GormSalaryAdvanceRepository struct {
	db *gorm.DB
}

// NewGormSalaryAdvanceRepository creates a new GormSalaryAdvanceRepository
func NewGormSalaryAdvanceRepository(db *gorm.DB) *GormSalaryAdvanceRepository {
	return &GormSalaryAdvanceRepository{db: db}
}

// FindByID finds an advance by its ID
func (r *GormSalaryAdvanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryAdvance, error) {
	var model models.SalaryAdvanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an advance and locks its row until the transaction ends
func (r *GormSalaryAdvanceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.SalaryAdvance, error) {
	var model models.SalaryAdvanceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists advances matching the filter
func (r *GormSalaryAdvanceRepository) FindAll(ctx context.Context, filter payroll.AdvanceFilter) ([]payroll.SalaryAdvance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SalaryAdvanceModel{}).Where("branch_id = ?", filter.BranchID)
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SalaryAdvanceModel
	if err := applyPaging(query, filter.Filter, AdvanceSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	advances := make([]payroll.SalaryAdvance, len(rows))
	for i := range rows {
		advances[i] = *rows[i].ToDomain()
	}
	return advances, total, nil
}

// Create inserts a new advance
func (r *GormSalaryAdvanceRepository) Create(ctx context.Context, advance *payroll.SalaryAdvance) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.SalaryAdvanceModelFromDomain(advance)).Error)
}

// Save persists a status transition with optimistic locking (checks version)
func (r *GormSalaryAdvanceRepository) Save(ctx context.Context, advance *payroll.SalaryAdvance) error {
	result := r.db.WithContext(ctx).
		Model(&models.SalaryAdvanceModel{}).
		Where("id = ? AND version = ?", advance.ID, advance.Version-1).
		Updates(map[string]interface{}{
			"status":             advance.Status,
			"paid_by":            advance.PaidBy,
			"paid_at":            advance.PaidAt,
			"shift_id":           advance.ShiftID,
			"transferred_by":     advance.TransferredBy,
			"transferred_at":     advance.TransferredAt,
			"transfer_reference": advance.TransferReference,
			"deducted_at":        advance.DeductedAt,
			"payroll_reference":  advance.PayrollReference,
			"cancelled_by":       advance.CancelledBy,
			"cancelled_at":       advance.CancelledAt,
			"version":            advance.Version,
			"updated_at":         advance.UpdatedAt,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormSalaryAdvanceRepository implements SalaryAdvanceRepository
var _ payroll.SalaryAdvanceRepository = (*GormSalaryAdvanceRepository)(nil)
