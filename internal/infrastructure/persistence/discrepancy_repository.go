package persistence

import (
	"context"
	"time"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDiscrepancyRepository implements DiscrepancyRepository using GORM
type GormDiscrepancyRepository struct {
	db *gorm.DB
}

// NewGormDiscrepancyRepository creates a new GormDiscrepancyRepository
func NewGormDiscrepancyRepository(db *gorm.DB) *GormDiscrepancyRepository {
	return &GormDiscrepancyRepository{db: db}
}

// Create appends the record of a closed shift
func (r *GormDiscrepancyRepository) Create(ctx context.Context, record *cashier.DiscrepancyRecord) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.DiscrepancyRecordModelFromDomain(record)).Error)
}

// FindByShift returns the record of a shift
func (r *GormDiscrepancyRepository) FindByShift(ctx context.Context, shiftID uuid.UUID) (*cashier.DiscrepancyRecord, error) {
	var model models.DiscrepancyRecordModel
	if err := r.db.WithContext(ctx).First(&model, "shift_id = ?", shiftID).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByOperator returns the records attributed to an operator, newest first
func (r *GormDiscrepancyRepository) FindByOperator(ctx context.Context, operatorID uuid.UUID, from, to *time.Time) ([]cashier.DiscrepancyRecord, error) {
	query := closedBetween(r.db.WithContext(ctx).Where("operator_id = ?", operatorID), from, to)

	var rows []models.DiscrepancyRecordModel
	if err := query.Order("closed_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDiscrepancyRecords(rows), nil
}

// FindAll lists the records matching the filter
func (r *GormDiscrepancyRepository) FindAll(ctx context.Context, filter cashier.DiscrepancyFilter) ([]cashier.DiscrepancyRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DiscrepancyRecordModel{}).Where("branch_id = ?", filter.BranchID)
	if filter.OperatorID != nil {
		query = query.Where("operator_id = ?", *filter.OperatorID)
	}
	query = closedBetween(query, filter.From, filter.To)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.DiscrepancyRecordModel
	if err := applyPaging(query, filter.Filter, DiscrepancySortFields, "closed_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDiscrepancyRecords(rows), total, nil
}

func closedBetween(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where("closed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("closed_at < ?", *to)
	}
	return query
}

func toDiscrepancyRecords(rows []models.DiscrepancyRecordModel) []cashier.DiscrepancyRecord {
	records := make([]cashier.DiscrepancyRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records
}

// Ensure GormDiscrepancyRepository implements DiscrepancyRepository
var _ cashier.DiscrepancyRepository = (*GormDiscrepancyRepository)(nil)
