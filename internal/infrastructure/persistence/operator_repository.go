package persistence

import (
	"context"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOperatorRepository implements OperatorRepository using GORM
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GormOperatorRepository
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// FindByID finds an operator by its ID
func (r *GormOperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error) {
	var model models.OperatorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByPinLookup returns the branch's operators holding the PIN digest, active first
func (r *GormOperatorRepository) FindByPinLookup(ctx context.Context, branchID uuid.UUID, lookup string) ([]identity.Operator, error) {
	var rows []models.OperatorModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND pin_lookup = ?", branchID, lookup).
		Order("status ASC").
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOperators(rows), nil
}

// ExistsActiveWithPin reports whether another active operator holds the PIN digest
func (r *GormOperatorRepository) ExistsActiveWithPin(ctx context.Context, branchID uuid.UUID, lookup string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OperatorModel{}).
		Where("branch_id = ? AND pin_lookup = ? AND status = ?", branchID, lookup, identity.OperatorStatusActive)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForBranch lists the operators of a branch
func (r *GormOperatorRepository) FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter identity.OperatorFilter) ([]identity.Operator, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OperatorModel{}).Where("branch_id = ?", branchID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OperatorModel
	if err := applyPaging(query, filter.Filter, OperatorSortFields, "name").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOperators(rows), total, nil
}

// Create inserts a new operator
func (r *GormOperatorRepository) Create(ctx context.Context, op *identity.Operator) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.OperatorModelFromDomain(op)).Error)
}

// Save updates an operator with optimistic locking. Reusing the PIN of
// another active operator violates idx_operators_active_pin.
func (r *GormOperatorRepository) Save(ctx context.Context, op *identity.Operator) error {
	result := r.db.WithContext(ctx).
		Model(&models.OperatorModel{}).
		Where("id = ? AND version = ?", op.ID, op.Version-1).
		Updates(map[string]interface{}{
			"name":           op.Name,
			"role":           op.Role,
			"status":         op.Status,
			"pin_hash":       op.PinHash,
			"pin_lookup":     op.PinLookup,
			"deactivated_at": op.DeactivatedAt,
			"version":        op.Version,
			"updated_at":     op.UpdatedAt,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func toOperators(rows []models.OperatorModel) []identity.Operator {
	ops := make([]identity.Operator, len(rows))
	for i := range rows {
		ops[i] = *rows[i].ToDomain()
	}
	return ops
}

// Ensure GormOperatorRepository implements OperatorRepository
var _ identity.OperatorRepository = (*GormOperatorRepository)(nil)
