package persistence

import (
	"context"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// Movements are append-only; the only delete path is by salary advance.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement
func (r *GormMovementRepository) Create(ctx context.Context, movement *cashier.CashRegisterMovement) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.MovementModelFromDomain(movement)).Error)
}

// FindByShift returns the shift's movements oldest first
func (r *GormMovementRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) ([]cashier.CashRegisterMovement, error) {
	var rows []models.MovementModel
	if err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	movements := make([]cashier.CashRegisterMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements, nil
}

// FindByAdvance returns the movement paying a salary advance
func (r *GormMovementRepository) FindByAdvance(ctx context.Context, advanceID uuid.UUID) (*cashier.CashRegisterMovement, error) {
	var model models.MovementModel
	if err := r.db.WithContext(ctx).First(&model, "salary_advance_id = ?", advanceID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// CountByAdvance counts the movements referencing a salary advance
func (r *GormMovementRepository) CountByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MovementModel{}).
		Where("salary_advance_id = ?", advanceID).
		Count(&count).Error
	return count, err
}

// DeleteByAdvance removes the movement paying a salary advance
func (r *GormMovementRepository) DeleteByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("salary_advance_id = ?", advanceID).
		Delete(&models.MovementModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormMovementRepository implements MovementRepository
var _ cashier.MovementRepository = (*GormMovementRepository)(nil)
