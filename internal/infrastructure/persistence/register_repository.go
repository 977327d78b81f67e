package persistence

import (
	"context"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCashRegisterRepository implements CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByID finds a register by its ID
func (r *GormCashRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashier.CashRegister, error) {
	var model models.CashRegisterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForBranch lists the registers of a branch in display order
func (r *GormCashRegisterRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter cashier.RegisterFilter) ([]cashier.CashRegister, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CashRegisterModel{}).Where("branch_id = ?", branchID)
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CashRegisterModel
	if err := applyPaging(query, filter.Filter, RegisterSortFields, "display_order").
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	registers := make([]cashier.CashRegister, len(rows))
	for i := range rows {
		registers[i] = *rows[i].ToDomain()
	}
	return registers, total, nil
}

// Create inserts a new register
func (r *GormCashRegisterRepository) Create(ctx context.Context, register *cashier.CashRegister) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.CashRegisterModelFromDomain(register)).Error)
}

// Save updates the activation state with optimistic locking
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *cashier.CashRegister) error {
	result := r.db.WithContext(ctx).
		Model(&models.CashRegisterModel{}).
		Where("id = ? AND version = ?", register.ID, register.Version-1).
		Updates(map[string]interface{}{
			"is_active":  register.IsActive,
			"version":    register.Version,
			"updated_at": register.UpdatedAt,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormCashRegisterRepository implements CashRegisterRepository
var _ cashier.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
